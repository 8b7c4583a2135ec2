package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/account"
	"freelancehub/internal/models"
	"freelancehub/internal/orders"
	"freelancehub/internal/session"
	"freelancehub/internal/utils"
)

type AdminHandler struct {
	base
	Engine *orders.Engine
}

func NewAdminHandler(db *gorm.DB, sessions *session.Manager, engine *orders.Engine) *AdminHandler {
	return &AdminHandler{base: base{DB: db, Sessions: sessions}, Engine: engine}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats := fiber.Map{}
	counts := []struct {
		key   string
		model interface{}
	}{
		{"Users", &models.User{}},
		{"Categories", &models.Category{}},
		{"Services", &models.Service{}},
		{"Orders", &models.Order{}},
		{"Reviews", &models.Review{}},
		{"Messages", &models.Message{}},
	}
	for _, x := range counts {
		var n int64
		if err := h.DB.Model(x.model).Count(&n).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		stats[x.key] = n
	}
	return h.render(c, "admin/dashboard", fiber.Map{"Stats": stats})
}

// ---- categories ----

func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	var cats []models.Category
	if err := h.DB.Order("name ASC").Find(&cats).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return h.render(c, "admin/categories", fiber.Map{"Categories": cats})
}

func (h *AdminHandler) CategoriesAction(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.FormValue("id"))
	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))

	switch c.FormValue("action") {
	case "create", "update":
		if name == "" {
			h.Sessions.FlashError(c, "Category name is required")
			return c.Redirect("/admin/categories")
		}

		// duplicate names rejected before any write
		dup := h.DB.Model(&models.Category{}).Where("name = ?", name)
		if id > 0 {
			dup = dup.Where("id <> ?", id)
		}
		var n int64
		if err := dup.Count(&n).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		if n > 0 {
			h.Sessions.FlashError(c, "A category with this name already exists")
			return c.Redirect("/admin/categories")
		}

		if c.FormValue("action") == "create" {
			cat := models.Category{Name: name, Description: description}
			if err := h.DB.Create(&cat).Error; err != nil {
				h.Sessions.FlashError(c, "Failed to create category")
			} else {
				h.Sessions.FlashSuccess(c, "Category created successfully")
			}
		} else {
			err := h.DB.Model(&models.Category{}).Where("id = ?", id).
				Updates(map[string]interface{}{"name": name, "description": description}).Error
			if err != nil {
				h.Sessions.FlashError(c, "Failed to update category")
			} else {
				h.Sessions.FlashSuccess(c, "Category updated successfully")
			}
		}

	case "delete":
		err := account.DeleteCategory(h.DB, uint(id))
		switch {
		case errors.Is(err, account.ErrCategoryInUse):
			h.Sessions.FlashError(c, "Cannot delete category because it is being used by services")
		case err != nil:
			h.Sessions.FlashError(c, "Failed to delete category")
		default:
			h.Sessions.FlashSuccess(c, "Category deleted successfully")
		}

	default:
		return fiber.ErrBadRequest
	}

	return c.Redirect("/admin/categories")
}

// ---- users ----

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return h.render(c, "admin/users", fiber.Map{"Users": users})
}

func (h *AdminHandler) UsersAction(c *fiber.Ctx) error {
	admin := session.FromCtx(c).User
	id, _ := strconv.Atoi(c.FormValue("id"))

	switch c.FormValue("action") {
	case "create":
		h.upsertUser(c, 0)

	case "update":
		if id <= 0 {
			return fiber.ErrBadRequest
		}
		h.upsertUser(c, uint(id))

	case "delete":
		if uint(id) == admin.ID {
			h.Sessions.FlashError(c, "You cannot delete your own account")
			return c.Redirect("/admin/users")
		}
		if err := account.DeleteUser(h.DB, uint(id)); err != nil {
			h.Sessions.FlashError(c, "Failed to delete user")
		} else {
			h.Sessions.FlashSuccess(c, "User deleted successfully")
		}

	default:
		return fiber.ErrBadRequest
	}

	return c.Redirect("/admin/users")
}

func (h *AdminHandler) upsertUser(c *fiber.Ctx, id uint) {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	name := strings.TrimSpace(c.FormValue("name"))
	password := c.FormValue("password")
	isAdmin := c.FormValue("is_admin") == "1"

	var errs []string
	if msg := utils.ValidateUsername(username); msg != "" {
		errs = append(errs, msg)
	}
	if msg := utils.ValidateEmail(email); msg != "" {
		errs = append(errs, msg)
	}
	if msg := utils.ValidateName(name); msg != "" {
		errs = append(errs, msg)
	}
	if id == 0 || password != "" {
		if msg := utils.ValidatePassword(password); msg != "" {
			errs = append(errs, msg)
		}
	}

	if len(errs) == 0 {
		dup := h.DB.Model(&models.User{}).Where("username = ? OR email = ?", username, email)
		if id > 0 {
			dup = dup.Where("id <> ?", id)
		}
		var n int64
		if err := dup.Count(&n).Error; err != nil {
			errs = append(errs, "Failed to save user")
		} else if n > 0 {
			errs = append(errs, "Username or email already in use")
		}
	}

	if len(errs) > 0 {
		h.Sessions.FlashError(c, strings.Join(errs, "; "))
		return
	}

	if id == 0 {
		hash, err := utils.HashPassword(password)
		if err != nil {
			h.Sessions.FlashError(c, "Failed to save user")
			return
		}
		u := models.User{Username: username, Email: email, Password: hash, Name: name, IsAdmin: isAdmin}
		if err := h.DB.Create(&u).Error; err != nil {
			h.Sessions.FlashError(c, "Failed to save user")
			return
		}
		h.Sessions.FlashSuccess(c, "User created successfully")
		return
	}

	updates := map[string]interface{}{
		"username": username,
		"email":    email,
		"name":     name,
		"is_admin": isAdmin,
	}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			h.Sessions.FlashError(c, "Failed to save user")
			return
		}
		updates["password"] = hash
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		h.Sessions.FlashError(c, "Failed to save user")
		return
	}
	h.Sessions.FlashSuccess(c, "User updated successfully")
}

// ---- services ----

func (h *AdminHandler) Services(c *fiber.Ctx) error {
	var services []models.Service
	err := h.DB.Preload("Freelancer").Preload("Category").
		Order("created_at DESC").Find(&services).Error
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return h.render(c, "admin/services", fiber.Map{"Services": services})
}

func (h *AdminHandler) ServicesAction(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.FormValue("id"))
	if id <= 0 {
		return fiber.ErrBadRequest
	}

	switch c.FormValue("action") {
	case "feature":
		err := h.DB.Model(&models.Service{}).Where("id = ?", id).
			Update("is_featured", gorm.Expr("NOT is_featured")).Error
		if err != nil {
			h.Sessions.FlashError(c, "Failed to update service")
		} else {
			h.Sessions.FlashSuccess(c, "Service updated successfully")
		}

	case "delete":
		if err := account.DeleteService(h.DB, uint(id)); err != nil {
			h.Sessions.FlashError(c, "Failed to delete service")
		} else {
			h.Sessions.FlashSuccess(c, "Service deleted successfully")
		}

	default:
		return fiber.ErrBadRequest
	}

	return c.Redirect("/admin/services")
}

// ---- orders ----

func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	var list []models.Order
	err := h.DB.Preload("Service").Preload("Service.Freelancer").Preload("Client").
		Order("created_at DESC").Find(&list).Error
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return h.render(c, "admin/orders", fiber.Map{"Orders": list})
}

// OrdersAction force-sets an order's status through the lifecycle
// engine's admin bypass.
func (h *AdminHandler) OrdersAction(c *fiber.Ctx) error {
	if c.FormValue("action") != "update_status" {
		return fiber.ErrBadRequest
	}

	admin := session.FromCtx(c).User
	id, _ := strconv.Atoi(c.FormValue("id"))
	target := models.OrderStatus(c.FormValue("status"))

	_, err := h.Engine.Transition(uint(id), target, admin)
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		h.Sessions.FlashError(c, "Invalid status")
	case errors.Is(err, orders.ErrNotFound):
		h.Sessions.FlashError(c, "Order not found")
	case err != nil:
		h.Sessions.FlashError(c, "Failed to update order status")
	default:
		h.Sessions.FlashSuccess(c, "Order status updated successfully")
	}
	return c.Redirect("/admin/orders")
}
