package middleware

import (
	"errors"
	"log"
	"net/http"

	"sosgog-storefront/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"

	cartKey          = "cart"
	cartSessionIDKey = "cart_session_id"
)

// CartSession resolves the caller's cart from the X-Cart-Session header.
// A missing or unknown session starts a new one; the id in use is always
// echoed back in the response header. When the cart store cannot be read the
// request fails with 503 and the shopper keeps their session id.
func CartSession(store *cart.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			id uuid.UUID
			ct *cart.Cart
		)

		if raw := c.GetHeader(CartSessionHeader); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				found, err := store.Get(c.Request.Context(), parsed)
				switch {
				case err == nil:
					id, ct = parsed, found
				case !errors.Is(err, cart.ErrSessionNotFound):
					log.Printf("Failed to load cart session %s: %v", parsed, err)
					c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Cart temporarily unavailable"})
					return
				}
			}
		}

		if ct == nil {
			id, ct = store.Create()
		}

		c.Header(CartSessionHeader, id.String())
		c.Set(cartKey, ct)
		c.Set(cartSessionIDKey, id)
		c.Next()
	}
}

// CurrentCart returns the cart resolved by CartSession.
func CurrentCart(c *gin.Context) (*cart.Cart, uuid.UUID, bool) {
	v, ok := c.Get(cartKey)
	if !ok {
		return nil, uuid.Nil, false
	}
	ct, ok := v.(*cart.Cart)
	if !ok {
		return nil, uuid.Nil, false
	}
	id, _ := c.Get(cartSessionIDKey)
	sid, _ := id.(uuid.UUID)
	return ct, sid, true
}
