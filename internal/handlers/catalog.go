package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/catalog"
	"freelancehub/internal/session"
)

type CatalogHandler struct {
	base
}

func NewCatalogHandler(db *gorm.DB, sessions *session.Manager) *CatalogHandler {
	return &CatalogHandler{base{DB: db, Sessions: sessions}}
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured, err := catalog.Search(h.DB, catalog.Filter{FeaturedOnly: true, Limit: 4})
	if err != nil {
		return fiber.ErrInternalServerError
	}
	newest, err := catalog.Search(h.DB, catalog.Filter{Sort: catalog.SortNewest, Limit: 8})
	if err != nil {
		return fiber.ErrInternalServerError
	}
	cats, err := catalog.Categories(h.DB)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return h.render(c, "home", fiber.Map{
		"Featured":   featured,
		"Newest":     newest,
		"Categories": cats,
	})
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	f := catalog.Filter{
		Query:       c.Query("query"),
		CategoryID:  uint(c.QueryInt("category", 0)),
		MaxDelivery: c.QueryInt("max_delivery", 0),
		Sort:        c.Query("sort", catalog.SortNewest),
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}

	results, err := catalog.Search(h.DB, f)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	cats, err := catalog.Categories(h.DB)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return h.render(c, "search", fiber.Map{
		"Results":    results,
		"Categories": cats,
		"Filter":     f,
		"Query":      c.Query("query"),
		"MinPrice":   c.Query("min_price"),
		"MaxPrice":   c.Query("max_price"),
		"Sort":       f.Sort,
	})
}
