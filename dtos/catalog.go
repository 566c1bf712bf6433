package dtos

import (
	"sosgog-storefront/models"
	"sosgog-storefront/pricing"
)

// ProductSummary is a product card in a listing.
type ProductSummary struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
	Image     string  `json:"image"`
	Category  string  `json:"category,omitempty"`
}

// ProductDetail is the product page payload with its default selection
// already priced.
type ProductDetail struct {
	models.Product
	Price string        `json:"price"`
	Quote pricing.Quote `json:"quote"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
	BasePrice   float64  `json:"base_price" binding:"required,gt=0"`
	Currency    string   `json:"currency"`
	CategoryID  uint     `json:"category_id" binding:"required"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Details     []string `json:"details"`
	BasePrice   *float64 `json:"base_price" binding:"omitempty,gt=0"`
	CategoryID  *uint    `json:"category_id"`
	IsActive    *bool    `json:"is_active"`
}

type OptionValueRequest struct {
	Label           string  `json:"label" binding:"required"`
	Swatch          string  `json:"swatch"`
	PriceAdjustment float64 `json:"price_adjustment"`
	Status          string  `json:"status"`
	ImageID         *uint   `json:"image_id"`
	Position        int     `json:"position"`
}

type CreateOptionRequest struct {
	Name     string               `json:"name" binding:"required"`
	Type     string               `json:"type"`
	Required *bool                `json:"required"`
	Position int                  `json:"position"`
	Values   []OptionValueRequest `json:"values" binding:"required,min=1,dive"`
}

type UpdateOptionValueRequest struct {
	Label           *string  `json:"label"`
	Swatch          *string  `json:"swatch"`
	PriceAdjustment *float64 `json:"price_adjustment"`
	Status          *string  `json:"status"`
	ImageID         *uint    `json:"image_id"`
	Position        *int     `json:"position"`
}
