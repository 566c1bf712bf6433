package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"sosgog-storefront/cart"
	"sosgog-storefront/config"
	"sosgog-storefront/dtos"
	"sosgog-storefront/messaging"
	"sosgog-storefront/middleware"
	"sosgog-storefront/models"
	"sosgog-storefront/pricing"
	"sosgog-storefront/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	DB        *gorm.DB
	Sessions  *cart.SessionStore
	Publisher messaging.Publisher
	Settings  config.StoreSettings
	Queue     string
}

// cartCurrency is the currency shared by every line, or fallback when the
// cart is empty or mixes currencies.
func cartCurrency(snap cart.Snapshot, fallback pricing.Currency) pricing.Currency {
	code := ""
	for _, it := range snap.Items {
		if it.Currency == "" {
			continue
		}
		if code != "" && !strings.EqualFold(code, it.Currency) {
			return fallback
		}
		code = it.Currency
	}
	if code == "" {
		return fallback
	}
	return pricing.LookupCurrency(code)
}

func (h *CheckoutHandler) summarize(snap cart.Snapshot) dtos.CheckoutSummary {
	subtotal := snap.Subtotal()
	shipping := h.Settings.ShippingFee
	if len(snap.Items) == 0 {
		shipping = 0
	}
	sum := pricing.Totals(subtotal, shipping, h.Settings.TaxRate)
	cur := cartCurrency(snap, h.Settings.Currency)

	return dtos.CheckoutSummary{
		Summary:         sum,
		Currency:        cur.Code,
		ItemCount:       snap.ItemCount(),
		SubtotalDisplay: cur.Format(sum.Subtotal),
		ShippingDisplay: cur.Format(sum.Shipping),
		TaxDisplay:      cur.Format(sum.Tax),
		TotalDisplay:    cur.Format(sum.Total),
	}
}

func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	ct, _, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}
	c.JSON(http.StatusOK, h.summarize(ct.Snapshot()))
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	ct, sessionID, ok := middleware.CurrentCart(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart session unavailable"})
		return
	}

	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	p := req.Payment
	if err := utils.ValidateCardFormat(p.CardNumber, p.ExpiryMonth, p.ExpiryYear, p.CVV); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := ct.Snapshot()
	if len(snap.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	summary := h.summarize(snap)
	order := models.Order{
		Email:         strings.TrimSpace(req.Email),
		FirstName:     req.Shipping.FirstName,
		LastName:      req.Shipping.LastName,
		Address:       req.Shipping.Address,
		City:          req.Shipping.City,
		PostalCode:    req.Shipping.PostalCode,
		CardLastFour:  utils.CardLastFour(p.CardNumber),
		Currency:      summary.Currency,
		Subtotal:      summary.Subtotal,
		Shipping:      summary.Shipping,
		Tax:           summary.Tax,
		Total:         summary.Total,
		CartSessionID: &sessionID,
	}
	for _, it := range snap.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    it.ID,
			ProductName:  it.Name,
			Variant:      it.Variant,
			ImageURL:     it.Image,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			PriceDisplay: it.Price,
		})
	}

	// Create saves the order and its items in one transaction.
	if err := h.DB.Create(&order).Error; err != nil {
		log.Printf("Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	ct.RemoveOrdered(snap.Items)
	if err := h.Sessions.Save(c.Request.Context(), sessionID); err != nil {
		log.Printf("Failed to persist cleared cart %s: %v", sessionID, err)
	}

	h.publishOrderPlaced(c.Request.Context(), order)
	utils.SendOrderConfirmation(order.Email, order.FirstName, order.OrderNumber, summary.TotalDisplay)

	c.JSON(http.StatusCreated, order)
}

// publishOrderPlaced reports the order to the broker. The order is already
// committed, so failures are only logged.
func (h *CheckoutHandler) publishOrderPlaced(ctx context.Context, order models.Order) {
	if h.Publisher == nil {
		return
	}

	event := dtos.OrderPlacedEvent{
		Event:       dtos.EventOrderPlaced,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		Currency:    order.Currency,
		Total:       order.Total,
		PlacedAt:    time.Now().UTC(),
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, dtos.OrderEventItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	if err := h.Publisher.Publish(ctx, h.Queue, event); err != nil {
		log.Printf("Failed to publish %s for order %s: %v", dtos.EventOrderPlaced, order.OrderNumber, err)
	}
}
