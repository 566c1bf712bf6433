package dtos

import "sosgog-storefront/pricing"

type ShippingDetails struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
}

// PaymentDetails is format-checked only. Nothing but the last four digits of
// the card number is kept.
type PaymentDetails struct {
	CardNumber  string `json:"card_number" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required"`
	ExpiryYear  string `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

type CheckoutRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Shipping ShippingDetails `json:"shipping" binding:"required"`
	Payment  PaymentDetails  `json:"payment" binding:"required"`
}

// CheckoutSummary is the order summary panel of the checkout page.
type CheckoutSummary struct {
	pricing.Summary
	Currency        string `json:"currency"`
	ItemCount       int    `json:"item_count"`
	SubtotalDisplay string `json:"subtotal_display"`
	ShippingDisplay string `json:"shipping_display"`
	TaxDisplay      string `json:"tax_display"`
	TotalDisplay    string `json:"total_display"`
}
