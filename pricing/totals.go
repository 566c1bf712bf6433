package pricing

import "math"

const (
	DefaultShippingFee = 50.0
	DefaultTaxRate     = 0.10
)

type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals applies a flat shipping fee and a tax rate on the subtotal.
func Totals(subtotal, shipping, taxRate float64) Summary {
	tax := Round2(subtotal * taxRate)
	return Summary{
		Subtotal: Round2(subtotal),
		Shipping: shipping,
		Tax:      tax,
		Total:    Round2(subtotal + shipping + tax),
	}
}

// Round2 rounds to whole cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
