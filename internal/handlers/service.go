package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"freelancehub/internal/catalog"
	"freelancehub/internal/models"
	"freelancehub/internal/session"
)

const (
	maxServiceImages = 5
	maxImageBytes    = 5 * 1024 * 1024
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type ServiceHandler struct {
	base
	UploadDir string
}

func NewServiceHandler(db *gorm.DB, sessions *session.Manager, uploadDir string) *ServiceHandler {
	return &ServiceHandler{base: base{DB: db, Sessions: sessions}, UploadDir: uploadDir}
}

func (h *ServiceHandler) loadService(id uint) (*models.Service, error) {
	var svc models.Service
	err := h.DB.
		Preload("Freelancer").
		Preload("Category").
		Preload("Images").
		First(&svc, id).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (h *ServiceHandler) View(c *fiber.Ctx) error {
	id := c.QueryInt("id", 0)
	if id <= 0 {
		h.Sessions.FlashError(c, "Invalid service ID")
		return c.Redirect("/")
	}

	svc, err := h.loadService(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.Sessions.FlashError(c, "Service not found")
		return c.Redirect("/")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	var rating struct {
		Avg   float64
		Count int64
	}
	if err := h.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) as avg, COUNT(*) as count").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.service_id = ?", svc.ID).
		Scan(&rating).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var reviews []models.Review
	if err := h.DB.
		Preload("Order.Client").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.service_id = ?", svc.ID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	user := session.FromCtx(c).User
	hasOrdered := false
	if user != nil {
		var n int64
		h.DB.Model(&models.Order{}).
			Where("service_id = ? AND client_id = ?", svc.ID, user.ID).
			Count(&n)
		hasOrdered = n > 0
	}

	return h.render(c, "service_view", fiber.Map{
		"Service":     svc,
		"AvgRating":   rating.Avg,
		"ReviewCount": rating.Count,
		"Reviews":     reviews,
		"HasOrdered":  hasOrdered,
		"IsOwner":     user != nil && user.ID == svc.FreelancerID,
	})
}

// Contact handles the service page's action=contact form: an
// order-less message from the visitor to the freelancer.
func (h *ServiceHandler) Contact(c *fiber.Ctx) error {
	if c.FormValue("action") != "contact" {
		return fiber.ErrBadRequest
	}

	id := c.QueryInt("id", 0)
	if id <= 0 {
		h.Sessions.FlashError(c, "Invalid service ID")
		return c.Redirect("/")
	}
	redirect := fmt.Sprintf("/services/view?id=%d", id)

	user := session.FromCtx(c).User
	if user == nil {
		h.Sessions.FlashError(c, "You must be logged in to contact the freelancer")
		return c.Redirect("/login")
	}

	svc, err := h.loadService(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.Sessions.FlashError(c, "Service not found")
		return c.Redirect("/")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	content := strings.TrimSpace(c.FormValue("message"))
	if content == "" {
		h.Sessions.FlashError(c, "Message cannot be empty")
		return c.Redirect(redirect)
	}

	msg := models.Message{
		SenderID:   user.ID,
		ReceiverID: svc.FreelancerID,
		Content:    content,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		h.Sessions.FlashError(c, "Failed to send message. Please try again.")
		return c.Redirect(redirect)
	}

	h.Sessions.FlashSuccess(c, "Message sent successfully!")
	return c.Redirect(redirect)
}

func (h *ServiceHandler) CreatePage(c *fiber.Ctx) error {
	cats, err := catalog.Categories(h.DB)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return h.render(c, "service_create", fiber.Map{"Categories": cats, "CategoryID": uint(0)})
}

func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	price, priceErr := strconv.ParseFloat(c.FormValue("price"), 64)
	delivery, deliveryErr := strconv.Atoi(c.FormValue("delivery_time"))
	categoryID, _ := strconv.Atoi(c.FormValue("category_id"))

	var errs []string
	if title == "" {
		errs = append(errs, "Title is required")
	}
	if description == "" {
		errs = append(errs, "Description is required")
	}
	if priceErr != nil || price <= 0 {
		errs = append(errs, "Price must be a positive number")
	}
	if deliveryErr != nil || delivery <= 0 {
		errs = append(errs, "Delivery time must be a positive number")
	}

	var category models.Category
	if categoryID <= 0 {
		errs = append(errs, "Please select a category")
	} else if err := h.DB.First(&category, categoryID).Error; err != nil {
		errs = append(errs, "Please select a valid category")
	}

	images, imgErrs := h.collectImages(c)
	errs = append(errs, imgErrs...)

	if len(errs) > 0 {
		cats, err := catalog.Categories(h.DB)
		if err != nil {
			return fiber.ErrInternalServerError
		}
		return h.render(c, "service_create", fiber.Map{
			"Errors":      errs,
			"Categories":  cats,
			"Title":       title,
			"Description": description,
			"Price":       c.FormValue("price"),
			"Delivery":    c.FormValue("delivery_time"),
			"CategoryID":  uint(categoryID),
		})
	}

	svc := models.Service{
		Title:        title,
		Description:  description,
		Price:        price,
		DeliveryTime: delivery,
		FreelancerID: user.ID,
		CategoryID:   category.ID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&svc).Error; err != nil {
			return err
		}
		return h.storeImages(c, tx, &svc, images)
	})
	if err != nil {
		h.Sessions.FlashError(c, "Failed to create the service. Please try again.")
		return c.Redirect("/services/create")
	}

	h.Sessions.FlashSuccess(c, "Service created successfully!")
	return c.Redirect(fmt.Sprintf("/services/view?id=%d", svc.ID))
}

// collectImages validates the uploaded files without saving anything.
// JPEG/PNG/GIF only, 5MB each, at most five files.
func (h *ServiceHandler) collectImages(c *fiber.Ctx) ([]*multipart.FileHeader, []string) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}

	var errs []string
	if len(files) > maxServiceImages {
		return nil, []string{fmt.Sprintf("You can upload at most %d images", maxServiceImages)}
	}

	var ok []*multipart.FileHeader
	for _, f := range files {
		if !allowedImageTypes[f.Header.Get("Content-Type")] {
			errs = append(errs, fmt.Sprintf("File '%s' is not a valid image type. Only JPG, PNG, and GIF are allowed.", f.Filename))
			continue
		}
		if f.Size > maxImageBytes {
			errs = append(errs, fmt.Sprintf("File '%s' exceeds the maximum file size of 5MB.", f.Filename))
			continue
		}
		ok = append(ok, f)
	}
	return ok, errs
}

// storeImages writes the files to disk and records them; the first
// stored image becomes the primary one.
func (h *ServiceHandler) storeImages(c *fiber.Ctx, tx *gorm.DB, svc *models.Service, files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return nil
	}

	dir := filepath.Join(h.UploadDir, "services")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for i, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		name := fmt.Sprintf("service_%d_%s%s", svc.ID, uuid.NewString(), ext)
		if err := c.SaveFile(f, filepath.Join(dir, name)); err != nil {
			return err
		}

		img := models.ServiceImage{
			ServiceID: svc.ID,
			ImagePath: "uploads/services/" + name,
			IsPrimary: i == 0,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}
