package dtos

import "sosgog-storefront/cart"

// AddToCartRequest accepts either a product id with option choices, priced
// on the server, or a ready-made line as the storefront pages send it.
type AddToCartRequest struct {
	ProductID  uint              `json:"product_id"`
	Selections map[string]string `json:"selections"`

	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	UnitPrice *float64 `json:"unit_price"`
	Currency  string   `json:"currency"`
	Image     string   `json:"image"`
	Variant   *string  `json:"variant"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type SetCartOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

type CartResponse struct {
	SessionID       string      `json:"session_id"`
	Items           []cart.Item `json:"items"`
	Open            bool        `json:"open"`
	ItemCount       int         `json:"item_count"`
	Subtotal        float64     `json:"subtotal"`
	SubtotalDisplay string      `json:"subtotal_display"`
}

type PriceRequest struct {
	Selections map[string]string `json:"selections"`
}
