package dtos

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderPlaced          = "order_placed"
	EventApplicationSubmitted = "application_submitted"
)

type OrderEventItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Variant   *string `json:"variant,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderPlacedEvent struct {
	Event       string           `json:"event"`
	OrderID     uuid.UUID        `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	Email       string           `json:"email"`
	Currency    string           `json:"currency"`
	Total       float64          `json:"total"`
	Items       []OrderEventItem `json:"items"`
	PlacedAt    time.Time        `json:"placed_at"`
}

type ApplicationSubmittedEvent struct {
	Event         string    `json:"event"`
	ApplicationID uuid.UUID `json:"application_id"`
	BusinessName  string    `json:"business_name"`
	Email         string    `json:"email"`
	Country       string    `json:"country"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
