// Package catalog reads products, their options and images from the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sosgog-storefront/models"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// Filter narrows a product listing. Zero fields are ignored.
type Filter struct {
	CategoryID   uint
	CategorySlug string
	Search       string
}

// Catalog is the read side the storefront needs from the product store.
type Catalog interface {
	ListProducts(ctx context.Context, f Filter) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	GetOptions(ctx context.Context, productID uint) ([]models.ProductOption, error)
	GetImages(ctx context.Context, productID uint) ([]models.ProductImage, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type GormCatalog struct {
	DB *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

func imagesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("is_main DESC").Order("position ASC").Order("id ASC")
}

func (c *GormCatalog) ListProducts(ctx context.Context, f Filter) ([]models.Product, error) {
	query := c.DB.WithContext(ctx).
		Preload("Category").
		Preload("Images", imagesOrdered).
		Where("products.is_active = ?", true)

	if f.CategoryID != 0 {
		query = query.Where("products.category_id = ?", f.CategoryID)
	}
	if f.CategorySlug != "" {
		query = query.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ? AND deleted_at IS NULL)", f.CategorySlug)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *GormCatalog) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := c.DB.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

func (c *GormCatalog) GetOptions(ctx context.Context, productID uint) ([]models.ProductOption, error) {
	var options []models.ProductOption
	err := c.DB.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("id ASC")
		}).
		Where("product_id = ?", productID).
		Order("position ASC").Order("id ASC").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("get options for product %d: %w", productID, err)
	}
	return options, nil
}

func (c *GormCatalog) GetImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := imagesOrdered(c.DB.WithContext(ctx)).Where("product_id = ?", productID).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("get images for product %d: %w", productID, err)
	}
	return images, nil
}

func (c *GormCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
