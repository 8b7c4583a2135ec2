package models

import (
	"time"
)

// Message is either a service inquiry (no order) or part of an order
// thread. System messages are posted by the order lifecycle engine.
type Message struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	SenderID   uint  `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint  `gorm:"not null;index" json:"receiver_id"`
	OrderID    *uint `gorm:"index" json:"order_id,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`

	Sender   *User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User  `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Order    *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}
