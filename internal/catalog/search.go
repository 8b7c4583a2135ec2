package catalog

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"freelancehub/internal/models"
)

// Sort keys accepted by Search.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortRating    = "rating"
	SortPopular   = "popular"
)

// Filter is a typed predicate list; Search renders it to SQL in one
// place so clause/parameter pairing can't drift. All criteria are
// conjunctive. Zero values mean "no constraint" (price bounds use
// pointers so 0 remains a usable bound).
type Filter struct {
	Query        string
	CategoryID   uint
	MinPrice     *float64
	MaxPrice     *float64
	MaxDelivery  int
	FeaturedOnly bool
	Sort         string
	Limit        int
}

// Result is one service row decorated with the aggregates the listing
// pages show.
type Result struct {
	ID           uint
	Title        string
	Description  string
	Price        float64
	DeliveryTime int
	IsFeatured   bool
	CreatedAt    time.Time

	FreelancerID   uint
	FreelancerName string
	CategoryID     uint
	CategoryName   string

	AvgRating   float64
	ReviewCount int64
	OrderCount  int64
	Image       string
}

// Search returns the services matching f, sorted per f.Sort. The
// rating sort coalesces review-less services to 0 so they land last,
// deterministically; every sort breaks ties by newest first.
func Search(db *gorm.DB, f Filter) ([]Result, error) {
	q := db.
		Table("services").
		Select(`
			services.id,
			services.title,
			services.description,
			services.price,
			services.delivery_time,
			services.is_featured,
			services.created_at,
			services.freelancer_id,
			u.name as freelancer_name,
			services.category_id,
			c.name as category_name,
			(SELECT COALESCE(AVG(r.rating), 0) FROM reviews r JOIN orders o ON r.order_id = o.id WHERE o.service_id = services.id) as avg_rating,
			(SELECT COUNT(*) FROM reviews r JOIN orders o ON r.order_id = o.id WHERE o.service_id = services.id) as review_count,
			(SELECT COUNT(*) FROM orders o WHERE o.service_id = services.id) as order_count,
			(SELECT si.image_path FROM service_images si WHERE si.service_id = services.id AND si.is_primary = ? LIMIT 1) as image
		`, true).
		Joins("JOIN users u ON u.id = services.freelancer_id").
		Joins("JOIN categories c ON c.id = services.category_id")

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(services.title) LIKE ? OR LOWER(services.description) LIKE ?", like, like)
	}
	if f.CategoryID != 0 {
		q = q.Where("services.category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("services.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("services.price <= ?", *f.MaxPrice)
	}
	if f.MaxDelivery > 0 {
		q = q.Where("services.delivery_time <= ?", f.MaxDelivery)
	}
	if f.FeaturedOnly {
		q = q.Where("services.is_featured = ?", true)
	}

	switch f.Sort {
	case SortPriceLow:
		q = q.Order("services.price ASC, services.created_at DESC")
	case SortPriceHigh:
		q = q.Order("services.price DESC, services.created_at DESC")
	case SortRating:
		q = q.Order("avg_rating DESC, services.created_at DESC")
	case SortPopular:
		q = q.Order("order_count DESC, services.created_at DESC")
	default: // newest
		q = q.Order("services.created_at DESC, services.id DESC")
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var results []Result
	if err := q.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Categories lists all categories by name, for filter sidebars and
// forms.
func Categories(db *gorm.DB) ([]models.Category, error) {
	var cats []models.Category
	err := db.Order("name ASC").Find(&cats).Error
	return cats, err
}
