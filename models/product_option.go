package models

import (
	"time"

	"gorm.io/gorm"
)

type OptionValueStatus string

const (
	OptionInStock      OptionValueStatus = "in stock"
	OptionLimitedStock OptionValueStatus = "limited stock"
	OptionSoldOut      OptionValueStatus = "sold out"
)

// ValidOptionStatuses lists the availability states an option value may carry.
var ValidOptionStatuses = map[OptionValueStatus]bool{
	OptionInStock:      true,
	OptionLimitedStock: true,
	OptionSoldOut:      true,
}

// ProductOption is one selectable dimension of a product, e.g. Color or Size.
// Type is free-form; "color" only changes how the values are rendered.
type ProductOption struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	Type      string         `json:"type"`
	Required  bool           `gorm:"default:true" json:"required"`
	Position  int            `gorm:"default:0" json:"position"`
	Values    []OptionValue  `gorm:"foreignKey:OptionID" json:"values"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type OptionValue struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	OptionID        uint              `gorm:"not null;index" json:"option_id"`
	Label           string            `gorm:"not null" json:"label"`
	Swatch          string            `json:"swatch,omitempty"` // hex color for color options
	PriceAdjustment float64           `gorm:"default:0" json:"price_adjustment"`
	Status          OptionValueStatus `gorm:"default:'in stock'" json:"status"`
	ImageID         *uint             `json:"image_id,omitempty"`
	Position        int               `gorm:"default:0" json:"position"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Selectable reports whether the value may be chosen. Sold out values are
// still listed so they can be rendered as unavailable.
func (v OptionValue) Selectable() bool {
	return v.Status != OptionSoldOut
}
