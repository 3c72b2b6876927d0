package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Order is created when an approved quote version is converted.
type Order struct {
	ID          uuid.UUID
	EnquiryID   uuid.UUID
	QuoteID     uuid.UUID
	OrderNumber string
	Amount      float64
	Status      OrderStatus
	CreatedByID uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Order) TableName() string {
	return "orders"
}
