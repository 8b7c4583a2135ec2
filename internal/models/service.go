package models

import (
	"time"
)

type Service struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Title        string  `gorm:"type:varchar(150);not null" json:"title"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	Price        float64 `gorm:"not null" json:"price"`
	DeliveryTime int     `gorm:"not null" json:"delivery_time"` // days

	FreelancerID uint `gorm:"not null;index" json:"freelancer_id"`
	CategoryID   uint `gorm:"not null;index" json:"category_id"`

	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Freelancer *User          `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images     []ServiceImage `gorm:"foreignKey:ServiceID" json:"images,omitempty"`
}

type ServiceImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ServiceID uint   `gorm:"not null;index" json:"service_id"`
	ImagePath string `gorm:"type:text;not null" json:"image_path"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"` // first upload wins
}

// PrimaryImage returns the cover image path, or "" when the service has none.
func (s *Service) PrimaryImage() string {
	for _, img := range s.Images {
		if img.IsPrimary {
			return img.ImagePath
		}
	}
	if len(s.Images) > 0 {
		return s.Images[0].ImagePath
	}
	return ""
}
