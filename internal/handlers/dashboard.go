package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/models"
	"freelancehub/internal/session"
)

type DashboardHandler struct {
	base
}

func NewDashboardHandler(db *gorm.DB, sessions *session.Manager) *DashboardHandler {
	return &DashboardHandler{base{DB: db, Sessions: sessions}}
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	var services []models.Service
	if err := h.DB.
		Preload("Category").
		Preload("Images").
		Where("freelancer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&services).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	orderCounts := map[uint]int64{}
	if len(services) > 0 {
		var rows []struct {
			ServiceID uint
			N         int64
		}
		ids := make([]uint, 0, len(services))
		for _, s := range services {
			ids = append(ids, s.ID)
		}
		if err := h.DB.Model(&models.Order{}).
			Select("service_id, COUNT(*) as n").
			Where("service_id IN ?", ids).
			Group("service_id").
			Scan(&rows).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		for _, r := range rows {
			orderCounts[r.ServiceID] = r.N
		}
	}

	var clientOrders []models.Order
	if err := h.DB.
		Preload("Service").
		Preload("Service.Freelancer").
		Preload("Service.Images").
		Where("client_id = ?", user.ID).
		Order("created_at DESC").
		Find(&clientOrders).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var freelancerOrders []models.Order
	if err := h.DB.
		Preload("Service").
		Preload("Service.Images").
		Preload("Client").
		Joins("JOIN services ON services.id = orders.service_id").
		Where("services.freelancer_id = ?", user.ID).
		Order("orders.created_at DESC").
		Find(&freelancerOrders).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var unread int64
	if err := h.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", user.ID, false).
		Count(&unread).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	return h.render(c, "dashboard", fiber.Map{
		"Services":         services,
		"OrderCounts":      orderCounts,
		"ClientOrders":     clientOrders,
		"FreelancerOrders": freelancerOrders,
		"UnreadMessages":   unread,
	})
}
