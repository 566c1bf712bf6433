package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"sosgog-storefront/catalog"
	"sosgog-storefront/database"
	"sosgog-storefront/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	charcoalImage = "https://images.unsplash.com/photo-1490481651871-ab68de25d43d"
	navyImage     = "https://images.unsplash.com/photo-1592878904946-b3cd8ae243d0"
)

func TestGetProductsListsSummaries(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, jsonRequest("GET", "/api/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	products := parseResponseArray(w)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	var suit map[string]interface{}
	for _, p := range products {
		if m := p.(map[string]interface{}); m["name"] == "Wool Suit" {
			suit = m
		}
	}
	if suit == nil {
		t.Fatal("wool suit missing from listing")
	}
	if suit["price"] != "$3,890" {
		t.Errorf("expected price $3,890, got %v", suit["price"])
	}
	if suit["unit_price"].(float64) != 3890 {
		t.Errorf("expected unit_price 3890, got %v", suit["unit_price"])
	}
	if suit["image"] != charcoalImage {
		t.Errorf("expected main image, got %v", suit["image"])
	}
	if suit["category"] != "men" {
		t.Errorf("expected category men, got %v", suit["category"])
	}
}

func TestGetProductsFilters(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	tests := []struct {
		query string
		want  int
	}{
		{"?category=men", 1},
		{"?category=rare-collection", 0},
		{"?search=silk", 1},
		{"?search=SUIT", 1},
		{"?search=jacket", 0},
	}

	for _, tt := range tests {
		w := serve(router, jsonRequest("GET", "/api/products"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.query, w.Code)
		}
		if got := len(parseResponseArray(w)); got != tt.want {
			t.Errorf("%s: expected %d products, got %d", tt.query, tt.want, got)
		}
	}
}

func TestGetProductsInvalidCategoryID(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, jsonRequest("GET", "/api/products?category_id=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetProductsCatalogFailureRendersEmptyList(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db, failingCatalog{}, newMockStorage())

	w := serve(router, jsonRequest("GET", "/api/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %s", w.Body.String())
	}

	w = serve(router, jsonRequest("GET", "/api/categories", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty category list, got %d %s", w.Code, w.Body.String())
	}
}

func TestGetProductIncludesDefaultQuote(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, jsonRequest("GET", "/api/products/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["price"] != "$3,890" {
		t.Errorf("expected price $3,890, got %v", resp["price"])
	}
	if options := resp["options"].([]interface{}); len(options) != 2 {
		t.Errorf("expected 2 options, got %d", len(options))
	}
	if images := resp["images"].([]interface{}); len(images) != 3 {
		t.Errorf("expected 3 images, got %d", len(images))
	}

	quote := resp["quote"].(map[string]interface{})
	if quote["variant"] != "Charcoal - 46R" {
		t.Errorf("expected default variant 'Charcoal - 46R', got %v", quote["variant"])
	}
	if quote["image_index"].(float64) != 0 {
		t.Errorf("expected image index 0, got %v", quote["image_index"])
	}
	if missing := quote["missing_required"].([]interface{}); len(missing) != 0 {
		t.Errorf("expected no missing options, got %v", missing)
	}
}

func TestGetProductDefaultSkipsSoldOut(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	setValueStatus(db, "46R", models.OptionSoldOut)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, jsonRequest("GET", "/api/products/7", nil))
	quote := parseResponse(w)["quote"].(map[string]interface{})
	if quote["variant"] != "Charcoal - 48R" {
		t.Errorf("expected default variant 'Charcoal - 48R', got %v", quote["variant"])
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	for _, path := range []string{"/api/products/999", "/api/products/abc"} {
		w := serve(router, jsonRequest("GET", path, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		if parseResponse(w)["error"] != "Product not found" {
			t.Errorf("%s: unexpected error %v", path, parseResponse(w)["error"])
		}
	}
}

func TestQuotePrice(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	setValueAdjustment(db, "52R", 200)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	body := map[string]interface{}{"selections": map[string]string{"Color": "Navy", "Size": "52R"}}
	w := serve(router, jsonRequest("POST", "/api/products/7/price", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	quote := parseResponse(w)
	if quote["unit_price"].(float64) != 4090 {
		t.Errorf("expected 4090, got %v", quote["unit_price"])
	}
	if quote["price"] != "$4,090" {
		t.Errorf("expected $4,090, got %v", quote["price"])
	}
	if quote["variant"] != "Navy - 52R" {
		t.Errorf("expected 'Navy - 52R', got %v", quote["variant"])
	}
	if quote["image"] != navyImage {
		t.Errorf("expected navy image, got %v", quote["image"])
	}
}

func TestQuotePriceSoldOutChoiceIgnored(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	setValueStatus(db, "50R", models.OptionSoldOut)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	body := map[string]interface{}{"selections": map[string]string{"Color": "Grey", "Size": "50R"}}
	w := serve(router, jsonRequest("POST", "/api/products/7/price", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	quote := parseResponse(w)
	if quote["variant"] != "Grey" {
		t.Errorf("expected variant 'Grey', got %v", quote["variant"])
	}
	missing := quote["missing_required"].([]interface{})
	if len(missing) != 1 || missing[0] != "Size" {
		t.Errorf("expected Size missing, got %v", missing)
	}
	ignored := quote["ignored"].([]interface{})
	if len(ignored) != 1 || ignored[0] != "Size" {
		t.Errorf("expected Size ignored, got %v", ignored)
	}
}

func TestQuotePriceUnknownChoice(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	for _, sel := range []map[string]string{{"Fabric": "Linen"}, {"Size": "60R"}} {
		w := serve(router, jsonRequest("POST", "/api/products/7/price", map[string]interface{}{"selections": sel}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", sel, w.Code)
		}
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	db := freshDB()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, jsonRequest("POST", "/api/admin/products", map[string]interface{}{"name": "X"}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateCategoryAndProduct(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name": "Women", "slug": "Women",
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	category := parseResponse(w)
	if category["slug"] != "women" {
		t.Errorf("expected slug lowercased, got %v", category["slug"])
	}

	w = serve(router, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name": "Women again", "slug": "women",
	}, token))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d", w.Code)
	}

	w = serve(router, authRequest("POST", "/api/admin/products", map[string]interface{}{
		"name":        "Silk Scarf",
		"base_price":  1200,
		"category_id": category["id"],
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	product := parseResponse(w)
	if !strings.HasPrefix(product["sku"].(string), "SOS-") {
		t.Errorf("expected generated SKU, got %v", product["sku"])
	}
	if product["category_id"] != category["id"] {
		t.Errorf("expected category %v, got %v", category["id"], product["category_id"])
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, authRequest("POST", "/api/admin/products", map[string]interface{}{
		"name": "No Price", "category_id": 1,
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without price, got %d", w.Code)
	}

	w = serve(router, authRequest("POST", "/api/admin/products", map[string]interface{}{
		"name": "Orphan", "base_price": 10, "category_id": 999,
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", w.Code)
	}
}

func TestUpdateProductDeactivateHidesIt(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, authRequest("PUT", "/api/admin/products/7", map[string]interface{}{
		"is_active": false, "base_price": 3990,
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var suit models.Product
	db.First(&suit, 7)
	if suit.IsActive || suit.BasePrice != 3990 {
		t.Errorf("expected inactive suit at 3990, got active=%v price=%v", suit.IsActive, suit.BasePrice)
	}
	if len(suit.Details) != 4 {
		t.Errorf("expected details preserved, got %v", suit.Details)
	}

	w = serve(router, jsonRequest("GET", "/api/products/7", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for inactive product, got %d", w.Code)
	}
}

func TestAddOption(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	w := serve(router, authRequest("POST", "/api/admin/products/1/options", map[string]interface{}{
		"name":     "Length",
		"required": false,
		"position": 2,
		"values": []map[string]interface{}{
			{"label": "Midi", "position": 0},
			{"label": "Maxi", "price_adjustment": 150, "status": "limited stock", "position": 1},
		},
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var option models.ProductOption
	db.Preload("Values").Where("product_id = ? AND name = ?", 1, "Length").First(&option)
	if option.Required {
		t.Error("expected optional option")
	}
	if len(option.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(option.Values))
	}
	for _, v := range option.Values {
		if v.Label == "Midi" && v.Status != models.OptionInStock {
			t.Errorf("expected default status in stock, got %s", v.Status)
		}
	}

	w = serve(router, authRequest("POST", "/api/admin/products/1/options", map[string]interface{}{
		"name": "Length", "values": []map[string]interface{}{{"label": "Mini"}},
	}, token))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate option, got %d", w.Code)
	}
}

func TestAddOptionRejectsBadValues(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	var suitImage models.ProductImage
	db.Where("product_id = ?", 7).First(&suitImage)

	bodies := []map[string]interface{}{
		{"name": "Fit", "values": []map[string]interface{}{{"label": "Slim", "status": "backordered"}}},
		{"name": "Fit", "values": []map[string]interface{}{{"label": "Slim"}, {"label": "Slim"}}},
		{"name": "Fit", "values": []map[string]interface{}{{"label": "Slim", "image_id": suitImage.ID}}},
		{"name": "Fit", "values": []map[string]interface{}{}},
	}
	for i, body := range bodies {
		w := serve(router, authRequest("POST", "/api/admin/products/1/options", body, token))
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: expected 400, got %d: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestUpdateOptionValueStatus(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupProductRouter(db, catalog.NewGormCatalog(db), newMockStorage())

	var value models.OptionValue
	db.Where("label = ?", "48R").First(&value)

	w := serve(router, authRequest("PUT", "/api/admin/option-values/"+itoa(value.ID), map[string]interface{}{
		"status": "sold out", "price_adjustment": 75,
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	db.First(&value, value.ID)
	if value.Status != models.OptionSoldOut || value.PriceAdjustment != 75 {
		t.Errorf("unexpected value after update: %+v", value)
	}

	w = serve(router, authRequest("PUT", "/api/admin/option-values/"+itoa(value.ID), map[string]interface{}{
		"status": "gone",
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", w.Code)
	}
}

func TestUploadProductImage(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	storage := newMockStorage()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), storage)

	req := multipartRequest("POST", "/api/admin/products/7/images", map[string]string{"is_main": "true"},
		[]filePart{{Field: "image", Filename: "suit.jpg", ContentType: "image/jpeg"}}, token)
	w := serve(router, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(storage.UploadCalls) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(storage.UploadCalls))
	}

	var mains int64
	db.Model(&models.ProductImage{}).Where("product_id = ? AND is_main = ?", 7, true).Count(&mains)
	if mains != 1 {
		t.Errorf("expected exactly one main image, got %d", mains)
	}
	image := parseResponse(w)
	if image["is_main"] != true || image["position"].(float64) != 3 {
		t.Errorf("unexpected image %v", image)
	}
}

func TestUploadProductImageRejectsType(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	storage := newMockStorage()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), storage)

	req := multipartRequest("POST", "/api/admin/products/7/images", nil,
		[]filePart{{Field: "image", Filename: "notes.pdf", ContentType: "application/pdf"}}, token)
	w := serve(router, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(storage.UploadCalls) != 0 {
		t.Error("rejected file must not be uploaded")
	}
}

func TestDeleteProductImage(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	storage := newMockStorage()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), storage)

	stored := models.ProductImage{
		ProductID: 1,
		ImageURL:  "https://storage.googleapis.com/test-bucket/products/123_dress.jpg",
		Position:  1,
	}
	db.Create(&stored)

	w := serve(router, authRequest("DELETE", "/api/admin/products/1/images/"+itoa(stored.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(storage.DeleteFileCalls) != 1 || storage.DeleteFileCalls[0] != "products/123_dress.jpg" {
		t.Errorf("expected storage delete of products/123_dress.jpg, got %v", storage.DeleteFileCalls)
	}
}

func TestDeleteProductImageFailedDeleteKeepsStorage(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")

	stored := models.ProductImage{
		ProductID: 1,
		ImageURL:  "https://storage.googleapis.com/test-bucket/products/123_dress.jpg",
		Position:  1,
	}
	db.Create(&stored)

	db.Callback().Delete().Before("gorm:delete").Register("test:fail_image_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "product_images" {
			tx.AddError(errors.New("disk full"))
		}
	})

	storage := newMockStorage()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), storage)

	w := serve(router, authRequest("DELETE", "/api/admin/products/1/images/"+itoa(stored.ID), nil, token))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	if len(storage.DeleteFileCalls) != 0 {
		t.Errorf("storage object must survive a failed delete, got %v", storage.DeleteFileCalls)
	}

	var count int64
	db.Model(&models.ProductImage{}).Where("id = ?", stored.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected image row kept, got %d", count)
	}
}

func TestDeleteMainImagePromotesNext(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	storage := newMockStorage()
	router := setupProductRouter(db, catalog.NewGormCatalog(db), storage)

	var main models.ProductImage
	db.Where("product_id = ? AND is_main = ?", 7, true).First(&main)

	w := serve(router, authRequest("DELETE", "/api/admin/products/7/images/"+itoa(main.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var next models.ProductImage
	if err := db.Where("product_id = ? AND is_main = ?", 7, true).First(&next).Error; err != nil {
		t.Fatal("expected a new main image")
	}
	if next.ImageURL != navyImage {
		t.Errorf("expected next image promoted, got %s", next.ImageURL)
	}

	var charcoal models.OptionValue
	db.Where("label = ?", "Charcoal").First(&charcoal)
	if charcoal.ImageID != nil {
		t.Error("expected color unlinked from deleted image")
	}
	// Non-storage URLs are left alone.
	if len(storage.DeleteFileCalls) != 0 {
		t.Errorf("expected no storage delete, got %v", storage.DeleteFileCalls)
	}

	w = serve(router, authRequest("DELETE", "/api/admin/products/7/images/"+itoa(main.ID), nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted image, got %d", w.Code)
	}
}
