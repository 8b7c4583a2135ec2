package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Label is the human-readable form shown on pages and in system
// messages: underscores become spaces, first letter capitalized.
func (s OrderStatus) Label() string {
	t := strings.ReplaceAll(string(s), "_", " ")
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

type Order struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"not null;index" json:"service_id"`
	ClientID  uint `gorm:"not null;index" json:"client_id"`

	Status OrderStatus `gorm:"type:varchar(20);not null" json:"status"`

	// Snapshot of the service price at creation time; later price edits
	// never touch existing orders.
	Price        float64 `gorm:"not null" json:"price"`
	Requirements string  `gorm:"type:text" json:"requirements"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Client  *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}
