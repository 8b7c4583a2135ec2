package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/models"
	"freelancehub/internal/session"
	"freelancehub/internal/utils"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(db *gorm.DB, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{base{DB: db, Sessions: sessions}}
}

func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	if session.FromCtx(c).User != nil {
		return c.Redirect("/")
	}
	return h.render(c, "register", fiber.Map{})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if session.FromCtx(c).User != nil {
		return c.Redirect("/")
	}

	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	name := strings.TrimSpace(c.FormValue("name"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	var errs []string
	if msg := utils.ValidateUsername(username); msg != "" {
		errs = append(errs, msg)
	}
	if msg := utils.ValidateEmail(email); msg != "" {
		errs = append(errs, msg)
	}
	if msg := utils.ValidatePassword(password); msg != "" {
		errs = append(errs, msg)
	}
	if msg := utils.ValidateName(name); msg != "" {
		errs = append(errs, msg)
	}
	if password != confirm {
		errs = append(errs, "Passwords do not match")
	}

	// uniqueness checked up front; the unique indexes stay as the last
	// line of defense
	if len(errs) == 0 {
		var count int64
		h.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
		if count > 0 {
			errs = append(errs, "Username already taken")
		}
		count = 0
		h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			errs = append(errs, "Email already registered")
		}
	}

	if len(errs) > 0 {
		return h.render(c, "register", fiber.Map{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
			"Name":     name,
		})
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return h.render(c, "register", fiber.Map{
			"Errors": []string{"Registration failed. Please try again."},
		})
	}

	u := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Name:     name,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return h.render(c, "register", fiber.Map{
			"Errors": []string{"Registration failed. Please try again."},
		})
	}

	if err := h.Sessions.SignIn(c, &u); err != nil {
		return fiber.ErrInternalServerError
	}
	h.Sessions.FlashSuccess(c, "Registration successful! Welcome to FreelanceHub.")
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if session.FromCtx(c).User != nil {
		return c.Redirect("/")
	}
	return h.render(c, "login", fiber.Map{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if session.FromCtx(c).User != nil {
		return c.Redirect("/")
	}

	login := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	// the login field accepts either username or email
	column := "username"
	if utils.ValidateEmail(login) == "" {
		column = "email"
	}

	var u models.User
	err := h.DB.Where(column+" = ?", login).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(u.Password, password)) {
		return h.render(c, "login", fiber.Map{
			"Error":    "Invalid username/email or password",
			"Username": login,
		})
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if err := h.Sessions.SignIn(c, &u); err != nil {
		return fiber.ErrInternalServerError
	}
	h.Sessions.FlashSuccess(c, "Login successful! Welcome back, "+u.Name+".")
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Sessions.SignOut(c); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Redirect("/")
}
