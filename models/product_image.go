package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductImage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	IsMain    bool           `gorm:"default:false" json:"is_main"`
	Position  int            `gorm:"default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
