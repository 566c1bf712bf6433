package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sosgog-storefront/catalog"
	"sosgog-storefront/dtos"
	"sosgog-storefront/firebase"
	"sosgog-storefront/models"
	"sosgog-storefront/pricing"
	"sosgog-storefront/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductHandler struct {
	DB      *gorm.DB
	Catalog catalog.Catalog
	Storage firebase.StorageClient
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func summarize(p models.Product) dtos.ProductSummary {
	cur := pricing.LookupCurrency(p.Currency)
	return dtos.ProductSummary{
		ID:        p.ID,
		Name:      p.Name,
		Price:     cur.Format(p.BasePrice),
		UnitPrice: p.BasePrice,
		Currency:  cur.Code,
		Image:     p.MainImage(),
		Category:  p.Category.Slug,
	}
}

func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		log.Printf("Failed to fetch categories: %v", err)
		c.JSON(http.StatusOK, []models.Category{})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetProducts renders an empty listing when the catalog cannot be read.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := catalog.Filter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = uint(id)
	}

	products, err := h.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Failed to fetch products: %v", err)
		c.JSON(http.StatusOK, []dtos.ProductSummary{})
		return
	}

	result := make([]dtos.ProductSummary, 0, len(products))
	for _, p := range products {
		result = append(result, summarize(p))
	}
	c.JSON(http.StatusOK, result)
}

// loadProduct fetches a product with its options and images, writing the
// error response itself when it fails.
func (h *ProductHandler) loadProduct(c *gin.Context) (models.Product, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return models.Product{}, false
	}

	ctx := c.Request.Context()
	product, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			log.Printf("Failed to fetch product %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return models.Product{}, false
	}

	if product.Options, err = h.Catalog.GetOptions(ctx, id); err != nil {
		log.Printf("Failed to fetch options for product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return models.Product{}, false
	}
	if product.Images, err = h.Catalog.GetImages(ctx, id); err != nil {
		log.Printf("Failed to fetch images for product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return models.Product{}, false
	}
	return product, true
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	defaults := pricing.DefaultSelections(product.Options).Labels()
	quote, err := pricing.Resolve(product, product.Options, product.Images, defaults)
	if err != nil {
		log.Printf("Failed to price default selection for product %d: %v", product.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price product"})
		return
	}

	c.JSON(http.StatusOK, dtos.ProductDetail{
		Product: product,
		Price:   pricing.LookupCurrency(product.Currency).Format(product.BasePrice),
		Quote:   quote,
	})
}

// QuotePrice prices a set of option choices without touching the cart.
func (h *ProductHandler) QuotePrice(c *gin.Context) {
	var req dtos.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	quote, err := pricing.Resolve(product, product.Options, product.Images, req.Selections)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req dtos.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	var count int64
	h.DB.Model(&models.Category{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category slug already exists"})
		return
	}

	category := models.Category{Name: req.Name, Slug: slug, Description: req.Description}
	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dtos.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var category models.Category
	if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	product := models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Details:     req.Details,
		BasePrice:   req.BasePrice,
		Currency:    strings.ToUpper(req.Currency),
		CategoryID:  category.ID,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		log.Printf("Failed to create product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	log.Printf("Created product %d (%s)", product.ID, product.SKU)

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req dtos.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.BasePrice != nil {
		product.BasePrice = *req.BasePrice
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Details != nil {
		product.Details = req.Details
	}
	if req.CategoryID != nil {
		var count int64
		h.DB.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		product.CategoryID = *req.CategoryID
	}

	if err := h.DB.Omit(clause.Associations).Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.DB.Preload("Category").First(&product, id)
	c.JSON(http.StatusOK, product)
}

func validOptionStatus(s string) (models.OptionValueStatus, bool) {
	if s == "" {
		return models.OptionInStock, true
	}
	status := models.OptionValueStatus(strings.ToLower(s))
	return status, models.ValidOptionStatuses[status]
}

func (h *ProductHandler) imageBelongs(productID, imageID uint) bool {
	var count int64
	h.DB.Model(&models.ProductImage{}).Where("id = ? AND product_id = ?", imageID, productID).Count(&count)
	return count > 0
}

func (h *ProductHandler) AddOption(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req dtos.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var existing int64
	h.DB.Model(&models.ProductOption{}).Where("product_id = ? AND name = ?", productID, req.Name).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Option '%s' already exists", req.Name)})
		return
	}

	option := models.ProductOption{
		ProductID: productID,
		Name:      req.Name,
		Type:      strings.ToLower(req.Type),
		Required:  true,
		Position:  req.Position,
	}

	seen := map[string]bool{}
	for _, v := range req.Values {
		if seen[v.Label] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Duplicate value '%s'", v.Label)})
			return
		}
		seen[v.Label] = true

		status, ok := validOptionStatus(v.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid status '%s'", v.Status)})
			return
		}
		if v.ImageID != nil && !h.imageBelongs(productID, *v.ImageID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image does not belong to this product"})
			return
		}
		option.Values = append(option.Values, models.OptionValue{
			Label:           v.Label,
			Swatch:          v.Swatch,
			PriceAdjustment: v.PriceAdjustment,
			Status:          status,
			ImageID:         v.ImageID,
			Position:        v.Position,
		})
	}

	tx := h.DB.Begin()
	if err := tx.Create(&option).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create option"})
		return
	}
	// Required defaults to true in the column, so false must be written explicitly.
	if req.Required != nil && !*req.Required {
		if err := tx.Model(&option).Update("required", false).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create option"})
			return
		}
		option.Required = false
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create option"})
		return
	}

	c.JSON(http.StatusCreated, option)
}

func (h *ProductHandler) UpdateOptionValue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Option value not found"})
		return
	}

	var req dtos.UpdateOptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var value models.OptionValue
	if err := h.DB.First(&value, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Option value not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = *req.Label
	}
	if req.Swatch != nil {
		updates["swatch"] = *req.Swatch
	}
	if req.PriceAdjustment != nil {
		updates["price_adjustment"] = *req.PriceAdjustment
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Status != nil {
		status, ok := validOptionStatus(*req.Status)
		if !ok || *req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid status '%s'", *req.Status)})
			return
		}
		updates["status"] = status
	}
	if req.ImageID != nil {
		var option models.ProductOption
		h.DB.First(&option, value.OptionID)
		if !h.imageBelongs(option.ProductID, *req.ImageID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image does not belong to this product"})
			return
		}
		updates["image_id"] = *req.ImageID
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&value).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update option value"})
			return
		}
	}

	h.DB.First(&value, id)
	c.JSON(http.StatusOK, value)
}

func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	imageURL, err := h.Storage.UploadProductImage(c.Request.Context(), file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Failed to upload image for product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	var count int64
	h.DB.Model(&models.ProductImage{}).Where("product_id = ?", productID).Count(&count)

	image := models.ProductImage{
		ProductID: productID,
		ImageURL:  imageURL,
		IsMain:    count == 0 || c.PostForm("is_main") == "true",
		Position:  int(count),
	}

	tx := h.DB.Begin()
	if image.IsMain {
		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", productID).Update("is_main", false).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
	}
	if err := tx.Create(&image).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *ProductHandler) DeleteProductImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	imageID, ok2 := parseID(c, "imageId")
	if !ok || !ok2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	var image models.ProductImage
	if err := h.DB.Where("id = ? AND product_id = ?", imageID, productID).First(&image).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	tx := h.DB.Begin()
	if err := tx.Model(&models.OptionValue{}).Where("image_id = ?", image.ID).Update("image_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	if err := tx.Delete(&image).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	if image.IsMain {
		var next models.ProductImage
		if err := tx.Where("product_id = ?", productID).Order("position ASC").Order("id ASC").First(&next).Error; err == nil {
			if err := tx.Model(&next).Update("is_main", true).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
				return
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	// The object is removed only after the row is gone. Order lines keep
	// their own copy of the image URL.
	var referenced int64
	h.DB.Model(&models.OrderItem{}).Where("image_url = ?", image.ImageURL).Count(&referenced)
	if referenced > 0 {
		log.Printf("Image %s is referenced in %d order item(s) - preserving in storage", image.ImageURL, referenced)
	} else if objectPath, err := utils.ExtractObjectPath(image.ImageURL); err == nil {
		if err := h.Storage.DeleteFile(c.Request.Context(), objectPath); err != nil {
			log.Printf("Failed to delete image %s from storage: %v", image.ImageURL, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
