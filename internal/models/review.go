package models

import (
	"time"
)

type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"uniqueIndex;not null" json:"order_id"` // one review per order
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}
