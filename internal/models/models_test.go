package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("Pending").Valid())
}

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", OrderPending.Label())
	assert.Equal(t, "In progress", OrderInProgress.Label())
	assert.Equal(t, "Completed", OrderCompleted.Label())
	assert.Equal(t, "Cancelled", OrderCancelled.Label())
	assert.Equal(t, "", OrderStatus("").Label())
}

func TestPrimaryImage(t *testing.T) {
	svc := &Service{}
	assert.Equal(t, "", svc.PrimaryImage())

	svc.Images = []ServiceImage{
		{ImagePath: "uploads/services/a.png"},
		{ImagePath: "uploads/services/b.png"},
	}
	assert.Equal(t, "uploads/services/a.png", svc.PrimaryImage())

	svc.Images[1].IsPrimary = true
	assert.Equal(t, "uploads/services/b.png", svc.PrimaryImage())
}
