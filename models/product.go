package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SKU         string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name        string          `gorm:"not null;index" json:"name"`
	Description string          `json:"description"`
	Details     []string        `gorm:"serializer:json" json:"details"`
	BasePrice   float64         `gorm:"not null" json:"base_price"`
	Currency    string          `gorm:"default:PKR" json:"currency"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Options     []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.SKU == "" {
		p.SKU = fmt.Sprintf("SOS-%d", time.Now().UnixNano()%1000000000)
	}
	return nil
}

// MainImage returns the URL of the image flagged as main, falling back to
// the first loaded image.
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
