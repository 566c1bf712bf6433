package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"sosgog-storefront/cart"
	"sosgog-storefront/catalog"
	"sosgog-storefront/dtos"
	"sosgog-storefront/middleware"
	"sosgog-storefront/pricing"
	"sosgog-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	Catalog  catalog.Catalog
	Sessions *cart.SessionStore
	Currency pricing.Currency
}

func (h *CartHandler) respond(c *gin.Context, status int, ct *cart.Cart, sessionID uuid.UUID) {
	snap := ct.Snapshot()
	subtotal := snap.Subtotal()

	c.JSON(status, dtos.CartResponse{
		SessionID:       sessionID.String(),
		Items:           snap.Items,
		Open:            snap.Open,
		ItemCount:       snap.ItemCount(),
		Subtotal:        subtotal,
		SubtotalDisplay: cartCurrency(snap, h.Currency).Format(subtotal),
	})
}

// persist writes the cart through to the session backend. A failure only
// costs durability, so the request still succeeds.
func (h *CartHandler) persist(c *gin.Context, sessionID uuid.UUID) {
	if err := h.Sessions.Save(c.Request.Context(), sessionID); err != nil {
		log.Printf("Failed to persist cart %s: %v", sessionID, err)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}
	h.respond(c, http.StatusOK, ct, sessionID)
}

// candidate builds the line to add. A product id is priced from the catalog;
// otherwise the posted line is taken as is, parsing the display price when no
// numeric price came with it.
func (h *CartHandler) candidate(c *gin.Context, req dtos.AddToCartRequest) (cart.Item, bool) {
	if req.ProductID != 0 {
		return h.resolvedCandidate(c, req)
	}

	if req.ID == 0 || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id or id and name are required"})
		return cart.Item{}, false
	}

	cur := h.Currency
	if req.Currency != "" {
		cur = pricing.LookupCurrency(req.Currency)
	}

	item := cart.Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Currency: cur.Code,
		Image:    req.Image,
		Variant:  req.Variant,
	}

	switch {
	case req.UnitPrice != nil:
		if *req.UnitPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unit_price must not be negative"})
			return cart.Item{}, false
		}
		item.UnitPrice = *req.UnitPrice
		if item.Price == "" {
			item.Price = cur.Format(item.UnitPrice)
		}
	case req.Price != "":
		unit, err := pricing.ParseDisplayPrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return cart.Item{}, false
		}
		item.UnitPrice = unit
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "price or unit_price is required"})
		return cart.Item{}, false
	}

	return item, true
}

func (h *CartHandler) resolvedCandidate(c *gin.Context, req dtos.AddToCartRequest) (cart.Item, bool) {
	ctx := c.Request.Context()
	product, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			log.Printf("Failed to fetch product %d: %v", req.ProductID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return cart.Item{}, false
	}

	options, err := h.Catalog.GetOptions(ctx, product.ID)
	if err != nil {
		log.Printf("Failed to fetch options for product %d: %v", product.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return cart.Item{}, false
	}
	images, err := h.Catalog.GetImages(ctx, product.ID)
	if err != nil {
		log.Printf("Failed to fetch images for product %d: %v", product.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return cart.Item{}, false
	}

	chosen := req.Selections
	if len(chosen) == 0 {
		chosen = pricing.DefaultSelections(options).Labels()
	}

	quote, err := pricing.Resolve(product, options, images, chosen)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return cart.Item{}, false
	}
	if !quote.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "Please select all required options",
			"missing_required": quote.Missing,
			"ignored":          quote.Ignored,
		})
		return cart.Item{}, false
	}

	return cart.Item{
		ID:        product.ID,
		Name:      product.Name,
		Price:     quote.Display,
		UnitPrice: quote.Price,
		Currency:  quote.Currency,
		Image:     quote.Image,
		Variant:   quote.Variant,
	}, true
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}

	var req dtos.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	item, ok := h.candidate(c, req)
	if !ok {
		return
	}

	if err := ct.AddSameCurrency(item); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart already holds items priced in another currency"})
		return
	}
	h.persist(c, sessionID)
	h.respond(c, http.StatusOK, ct, sessionID)
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req dtos.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ct.UpdateQuantity(id, req.Quantity)
	h.persist(c, sessionID)
	h.respond(c, http.StatusOK, ct, sessionID)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	ct.Remove(id)
	h.persist(c, sessionID)
	h.respond(c, http.StatusOK, ct, sessionID)
}

func (h *CartHandler) SetCartOpen(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}

	var req dtos.SetCartOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ct.SetOpen(*req.Open)
	h.persist(c, sessionID)
	h.respond(c, http.StatusOK, ct, sessionID)
}
