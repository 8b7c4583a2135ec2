package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"

	"freelancehub/internal/config"
	"freelancehub/internal/db"
	"freelancehub/internal/handlers"
	"freelancehub/internal/orders"
	"freelancehub/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}
	if err := db.SeedAdmin(gdb, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	sessions := session.New(cfg.RedisAddr)
	engine := orders.NewEngine(gdb)

	views := html.New("./views", ".html")
	views.AddFunc("money", func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	})
	views.AddFunc("stars", func(rating interface{}) string {
		var r float64
		switch v := rating.(type) {
		case float64:
			r = v
		case int:
			r = float64(v)
		}
		full := int(r + 0.5)
		if full > 5 {
			full = 5
		}
		return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
	})
	timeArg := func(v interface{}) (time.Time, bool) {
		switch t := v.(type) {
		case time.Time:
			return t, true
		case *time.Time:
			if t != nil {
				return *t, true
			}
		}
		return time.Time{}, false
	}
	views.AddFunc("date", func(v interface{}) string {
		if t, ok := timeArg(v); ok {
			return t.Format("Jan 02, 2006")
		}
		return ""
	})
	views.AddFunc("datetime", func(v interface{}) string {
		if t, ok := timeArg(v); ok {
			return t.Format("Jan 02, 2006 15:04")
		}
		return ""
	})

	app := fiber.New(fiber.Config{Views: views})

	app.Static("/uploads", cfg.UploadDir)
	app.Static("/static", "./static")

	app.Use(sessions.Middleware(gdb))
	app.Use(sessions.CSRF())

	catalogH := handlers.NewCatalogHandler(gdb, sessions)
	authH := handlers.NewAuthHandler(gdb, sessions)
	googleH := handlers.NewGoogleOAuthHandler(gdb, sessions, cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect)
	dashH := handlers.NewDashboardHandler(gdb, sessions)
	serviceH := handlers.NewServiceHandler(gdb, sessions, cfg.UploadDir)
	profileH := handlers.NewProfileHandler(gdb, sessions, cfg.UploadDir)
	orderH := handlers.NewOrderHandler(gdb, sessions, engine)
	adminH := handlers.NewAdminHandler(gdb, sessions, engine)

	// public
	app.Get("/", catalogH.Home)
	app.Get("/search", catalogH.Search)
	app.Get("/register", authH.RegisterPage)
	app.Post("/register", authH.Register)
	app.Get("/login", authH.LoginPage)
	app.Post("/login", authH.Login)
	app.Get("/logout", authH.Logout)
	app.Get("/services/view", serviceH.View)
	app.Post("/services/view", serviceH.Contact)

	if googleH.Enabled() {
		app.Get("/auth/google/start", googleH.Start)
		app.Get("/auth/google/callback", googleH.Callback)
	}

	// logged in
	app.Get("/dashboard", sessions.RequireLogin(), dashH.Dashboard)
	app.Get("/profile", sessions.RequireLogin(), profileH.EditPage)
	app.Post("/profile", sessions.RequireLogin(), profileH.Edit)
	app.Get("/services/create", sessions.RequireLogin(), serviceH.CreatePage)
	app.Post("/services/create", sessions.RequireLogin(), serviceH.Create)
	app.Get("/orders/create", sessions.RequireLogin(), orderH.CreatePage)
	app.Post("/orders/create", sessions.RequireLogin(), orderH.Create)
	app.Get("/orders/view", sessions.RequireLogin(), orderH.View)
	app.Post("/orders/view", sessions.RequireLogin(), orderH.Action)

	// admin
	admin := app.Group("/admin", sessions.RequireAdmin())
	admin.Get("/", adminH.Dashboard)
	admin.Get("/categories", adminH.Categories)
	admin.Post("/categories", adminH.CategoriesAction)
	admin.Get("/users", adminH.Users)
	admin.Post("/users", adminH.UsersAction)
	admin.Get("/services", adminH.Services)
	admin.Post("/services", adminH.ServicesAction)
	admin.Get("/orders", adminH.Orders)
	admin.Post("/orders", adminH.OrdersAction)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
