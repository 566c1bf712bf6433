package database

import (
	"fmt"
	"log"

	"sosgog-storefront/models"

	"gorm.io/gorm"
)

var seedCategories = []models.Category{
	{Name: "Women", Slug: "women", Description: "Womenswear"},
	{Name: "Men", Slug: "men", Description: "Menswear"},
	{Name: "Rare Collection", Slug: "rare-collection", Description: "One-of-a-kind pieces"},
}

// SeedCatalog loads the launch catalog into an empty database. It does
// nothing once any category exists.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		slugs := map[string]uint{}
		for _, c := range seedCategories {
			c := c
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.Slug, err)
			}
			slugs[c.Slug] = c.ID
		}

		dress := models.Product{
			ID:          1,
			SKU:         "SOS-DRESS-001",
			Name:        "Silk Evening Dress",
			Description: "Floor-length evening dress in pure mulberry silk.",
			Details:     []string{"100% mulberry silk", "Hand-finished hem", "Concealed back zip"},
			BasePrice:   2890,
			Currency:    "USD",
			CategoryID:  slugs["women"],
			Images: []models.ProductImage{
				{ImageURL: "https://images.unsplash.com/photo-1490481651871-ab68de25d43d", IsMain: true},
			},
		}
		if err := tx.Create(&dress).Error; err != nil {
			return fmt.Errorf("seed dress: %w", err)
		}

		if err := seedWoolSuit(tx, slugs["men"]); err != nil {
			return err
		}

		if tx.Dialector.Name() == "postgres" {
			// Explicit ids above do not advance the serial sequence.
			if err := tx.Exec(`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`).Error; err != nil {
				return fmt.Errorf("reset product sequence: %w", err)
			}
		}

		log.Println("Seeded launch catalog")
		return nil
	})
}

func seedWoolSuit(tx *gorm.DB, categoryID uint) error {
	suit := models.Product{
		ID:          7,
		SKU:         "SOS-SUIT-007",
		Name:        "Wool Suit",
		Description: "Expertly tailored wool suit crafted from the finest Italian fabrics. Features a modern cut with classic details.",
		Details:     []string{"100% Italian wool", "Half-canvas construction", "Pick-stitched lapels", "Working button cuffs"},
		BasePrice:   3890,
		Currency:    "USD",
		CategoryID:  categoryID,
		Images: []models.ProductImage{
			{ImageURL: "https://images.unsplash.com/photo-1490481651871-ab68de25d43d", IsMain: true, Position: 0},
			{ImageURL: "https://images.unsplash.com/photo-1592878904946-b3cd8ae243d0", Position: 1},
			{ImageURL: "https://images.unsplash.com/photo-1598808503746-f34c53b9323e", Position: 2},
		},
	}
	if err := tx.Create(&suit).Error; err != nil {
		return fmt.Errorf("seed suit: %w", err)
	}

	colors := []struct{ label, swatch string }{
		{"Charcoal", "#2A2A2A"},
		{"Navy", "#1B2A4A"},
		{"Grey", "#4A4A4A"},
	}
	color := models.ProductOption{ProductID: suit.ID, Name: "Color", Type: "color", Required: true, Position: 0}
	for i, c := range colors {
		imageID := suit.Images[i].ID
		color.Values = append(color.Values, models.OptionValue{
			Label: c.label, Swatch: c.swatch, Status: models.OptionInStock, ImageID: &imageID, Position: i,
		})
	}

	size := models.ProductOption{ProductID: suit.ID, Name: "Size", Type: "size", Required: true, Position: 1}
	for i, s := range []string{"46R", "48R", "50R", "52R"} {
		size.Values = append(size.Values, models.OptionValue{Label: s, Status: models.OptionInStock, Position: i})
	}

	for _, opt := range []*models.ProductOption{&color, &size} {
		if err := tx.Create(opt).Error; err != nil {
			return fmt.Errorf("seed option %s: %w", opt.Name, err)
		}
	}
	return nil
}
