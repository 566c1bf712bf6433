// Package cart holds a shopper's cart line items and the cart panel flag.
package cart

import (
	"errors"
	"strings"
	"sync"
)

// ErrCurrencyMismatch is returned when a line is priced in a different
// currency than the lines already in the cart.
var ErrCurrencyMismatch = errors.New("cart holds items in another currency")

// Item is one cart line. ID is the product id and is not unique in a cart:
// the same product in two variants is two lines.
type Item struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Variant   *string `json:"variant,omitempty"`
}

func (i Item) sameLine(id uint, variant *string) bool {
	if i.ID != id {
		return false
	}
	if i.Variant == nil || variant == nil {
		return i.Variant == nil && variant == nil
	}
	return *i.Variant == *variant
}

// Cart is safe for concurrent use. Mutations publish a new item slice; lines
// that a mutation does not touch keep their identity.
type Cart struct {
	mu    sync.Mutex
	items []*Item
	open  bool
}

func New() *Cart {
	return &Cart{}
}

// Add merges candidate into the line with the same id and variant, bumping
// its quantity by one, or appends it with quantity 1. The panel is opened.
func (c *Cart) Add(candidate Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(candidate)
}

func (c *Cart) add(candidate Item) {
	next := make([]*Item, len(c.items), len(c.items)+1)
	copy(next, c.items)

	found := false
	for i, it := range next {
		if it.sameLine(candidate.ID, candidate.Variant) {
			bumped := *it
			bumped.Quantity++
			next[i] = &bumped
			found = true
			break
		}
	}
	if !found {
		added := candidate
		added.Quantity = 1
		if candidate.Variant != nil {
			v := *candidate.Variant
			added.Variant = &v
		}
		next = append(next, &added)
	}

	c.items = next
	c.open = true
}

// AddSameCurrency is Add for carts that stay in one currency. Lines without
// a currency match anything.
func (c *Cart) AddSameCurrency(candidate Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if candidate.Currency != "" {
		for _, it := range c.items {
			if it.Currency != "" && !strings.EqualFold(it.Currency, candidate.Currency) {
				return ErrCurrencyMismatch
			}
		}
	}
	c.add(candidate)
	return nil
}

// Remove drops every line for product id, whatever its variant.
func (c *Cart) Remove(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) != len(c.items) {
		c.items = next
	}
}

// UpdateQuantity sets the quantity of the first line for product id. The
// value is stored as given.
func (c *Cart) UpdateQuantity(id uint, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, it := range c.items {
		if it.ID == id {
			next := make([]*Item, len(c.items))
			copy(next, c.items)
			updated := *it
			updated.Quantity = quantity
			next[i] = &updated
			c.items = next
			return
		}
	}
}

func (c *Cart) SetOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	for i, it := range c.items {
		out[i] = *it
	}
	return out
}

// Find returns the first line for product id.
func (c *Cart) Find(id uint) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.ID == id {
			return *it, true
		}
	}
	return Item{}, false
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// RemoveOrdered takes the quantities in ordered off their matching lines and
// drops lines that reach zero. Lines added after ordered was taken are kept.
// The panel closes once the cart is empty.
func (c *Cart) RemoveOrdered(ordered []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		remaining := it.Quantity
		for _, o := range ordered {
			if it.sameLine(o.ID, o.Variant) {
				remaining -= o.Quantity
			}
		}
		switch {
		case remaining == it.Quantity:
			next = append(next, it)
		case remaining > 0:
			kept := *it
			kept.Quantity = remaining
			next = append(next, &kept)
		}
	}

	c.items = next
	if len(next) == 0 {
		c.items = nil
		c.open = false
	}
}

// Snapshot is the serializable state of a cart.
type Snapshot struct {
	Items []Item `json:"items"`
	Open  bool   `json:"open"`
}

func (s Snapshot) Subtotal() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

func (s Snapshot) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	for i, it := range c.items {
		items[i] = *it
	}
	return Snapshot{Items: items, Open: c.open}
}

// Restore replaces the cart state with s.
func (c *Cart) Restore(s Snapshot) {
	items := make([]*Item, len(s.Items))
	for i := range s.Items {
		it := s.Items[i]
		items[i] = &it
	}

	c.mu.Lock()
	c.items = items
	c.open = s.Open
	c.mu.Unlock()
}
