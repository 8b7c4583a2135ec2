package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/models"
	"freelancehub/internal/orders"
	"freelancehub/internal/session"
)

type OrderHandler struct {
	base
	Engine *orders.Engine
}

func NewOrderHandler(db *gorm.DB, sessions *session.Manager, engine *orders.Engine) *OrderHandler {
	return &OrderHandler{base: base{DB: db, Sessions: sessions}, Engine: engine}
}

func (h *OrderHandler) CreatePage(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	serviceID := c.QueryInt("service_id", 0)
	if serviceID <= 0 {
		h.Sessions.FlashError(c, "Invalid service ID")
		return c.Redirect("/")
	}

	var svc models.Service
	err := h.DB.Preload("Freelancer").Preload("Category").Preload("Images").
		First(&svc, serviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.Sessions.FlashError(c, "Service not found")
		return c.Redirect("/")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if svc.FreelancerID == user.ID {
		h.Sessions.FlashError(c, "You cannot order your own service")
		return c.Redirect(fmt.Sprintf("/services/view?id=%d", svc.ID))
	}

	return h.render(c, "order_create", fiber.Map{"Service": &svc})
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	serviceID := c.QueryInt("service_id", 0)
	if serviceID <= 0 {
		h.Sessions.FlashError(c, "Invalid service ID")
		return c.Redirect("/")
	}

	requirements := strings.TrimSpace(c.FormValue("requirements"))

	order, err := h.Engine.Create(uint(serviceID), user, requirements)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		h.Sessions.FlashError(c, "Service not found")
		return c.Redirect("/")
	case errors.Is(err, orders.ErrSelfOrder):
		h.Sessions.FlashError(c, "You cannot order your own service")
		return c.Redirect(fmt.Sprintf("/services/view?id=%d", serviceID))
	case err != nil:
		h.Sessions.FlashError(c, "Failed to place the order. Please try again.")
		return c.Redirect(fmt.Sprintf("/orders/create?service_id=%d", serviceID))
	}

	h.Sessions.FlashSuccess(c, "Order placed successfully!")
	return c.Redirect(fmt.Sprintf("/orders/view?id=%d", order.ID))
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	id := c.QueryInt("id", 0)
	if id <= 0 {
		h.Sessions.FlashError(c, "Invalid order ID")
		return c.Redirect("/dashboard")
	}

	order, err := h.Engine.Get(uint(id))
	if errors.Is(err, orders.ErrNotFound) {
		h.Sessions.FlashError(c, "Order not found")
		return c.Redirect("/dashboard")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if !h.Engine.CanView(order, user) {
		h.Sessions.FlashError(c, "You don't have permission to view this order")
		return c.Redirect("/dashboard")
	}

	msgs, err := h.Engine.Messages(order.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	// opening the thread marks the viewer's incoming messages read
	if err := h.Engine.MarkThreadRead(order.ID, user.ID); err != nil {
		return fiber.ErrInternalServerError
	}

	review, err := h.Engine.Review(order.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	role := h.Engine.RoleFor(order, user)
	return h.render(c, "order_view", fiber.Map{
		"Order":        order,
		"Messages":     msgs,
		"Review":       review,
		"IsClient":     user.ID == order.ClientID,
		"IsFreelancer": order.Service != nil && user.ID == order.Service.FreelancerID,
		"IsAdmin":      role == orders.RoleAdmin,
	})
}

// Action dispatches the order page's POST forms: message,
// update_status and review.
func (h *OrderHandler) Action(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	id := c.QueryInt("id", 0)
	if id <= 0 {
		h.Sessions.FlashError(c, "Invalid order ID")
		return c.Redirect("/dashboard")
	}
	redirect := fmt.Sprintf("/orders/view?id=%d", id)

	order, err := h.Engine.Get(uint(id))
	if errors.Is(err, orders.ErrNotFound) {
		h.Sessions.FlashError(c, "Order not found")
		return c.Redirect("/dashboard")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}
	if !h.Engine.CanView(order, user) {
		h.Sessions.FlashError(c, "You don't have permission to view this order")
		return c.Redirect("/dashboard")
	}

	switch c.FormValue("action") {
	case "message":
		content := strings.TrimSpace(c.FormValue("content"))
		if err := h.Engine.PostMessage(order, user, content); err != nil {
			if errors.Is(err, orders.ErrEmptyMessage) {
				h.Sessions.FlashError(c, "Message cannot be empty")
			} else {
				h.Sessions.FlashError(c, "Failed to send message")
			}
			return c.Redirect(redirect)
		}
		return c.Redirect(redirect)

	case "update_status":
		target := models.OrderStatus(c.FormValue("status"))
		_, err := h.Engine.Transition(order.ID, target, user)
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			h.Sessions.FlashError(c, "Invalid status")
		case errors.Is(err, orders.ErrNotAllowed):
			h.Sessions.FlashError(c, "You don't have permission to update the order status")
		case err != nil:
			h.Sessions.FlashError(c, "Failed to update order status")
		default:
			h.Sessions.FlashSuccess(c, "Order status updated successfully")
		}
		return c.Redirect(redirect)

	case "review":
		rating, ratingErr := strconv.Atoi(c.FormValue("rating"))
		comment := strings.TrimSpace(c.FormValue("comment"))
		if ratingErr != nil {
			h.Sessions.FlashError(c, "Invalid rating")
			return c.Redirect(redirect)
		}
		err := h.Engine.SubmitReview(order.ID, user, rating, comment)
		switch {
		case errors.Is(err, orders.ErrInvalidRating):
			h.Sessions.FlashError(c, "Invalid rating")
		case errors.Is(err, orders.ErrNotClient):
			h.Sessions.FlashError(c, "Only the client can leave a review")
		case errors.Is(err, orders.ErrNotCompleted):
			h.Sessions.FlashError(c, "You can only review completed orders")
		case errors.Is(err, orders.ErrAlreadyReviewed):
			h.Sessions.FlashError(c, "You have already reviewed this order")
		case err != nil:
			h.Sessions.FlashError(c, "Failed to submit review")
		default:
			h.Sessions.FlashSuccess(c, "Review submitted successfully")
		}
		return c.Redirect(redirect)
	}

	return fiber.ErrBadRequest
}
