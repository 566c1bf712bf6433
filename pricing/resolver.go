// Package pricing resolves the displayed price of a product from its base
// price and the option values a shopper has selected.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"sosgog-storefront/models"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrUnknownValue  = errors.New("unknown option value")
)

// Selections maps an option name to the value chosen for it. At most one
// value is held per option.
type Selections map[string]models.OptionValue

// Select records value as the choice for optionName, replacing any earlier
// choice. Sold out values are refused and leave the selections untouched.
func (s Selections) Select(optionName string, value models.OptionValue) bool {
	if !value.Selectable() {
		return false
	}
	s[optionName] = value
	return true
}

func (s Selections) Deselect(optionName string) {
	delete(s, optionName)
}

// Labels returns the chosen value label for every selected option.
func (s Selections) Labels() map[string]string {
	out := make(map[string]string, len(s))
	for name, v := range s {
		out[name] = v.Label
	}
	return out
}

// ResolvePrice is base plus the sum of the selected values' adjustments.
func ResolvePrice(base float64, sel Selections) float64 {
	price := base
	for _, v := range sel {
		price += v.PriceAdjustment
	}
	return price
}

// DefaultSelections picks the first selectable value of each required option.
func DefaultSelections(options []models.ProductOption) Selections {
	sel := Selections{}
	for _, opt := range ordered(options) {
		if !opt.Required {
			continue
		}
		for _, v := range orderedValues(opt.Values) {
			if sel.Select(opt.Name, v) {
				break
			}
		}
	}
	return sel
}

// MissingRequired lists required options without a selection, in display order.
func MissingRequired(options []models.ProductOption, sel Selections) []string {
	var missing []string
	for _, opt := range ordered(options) {
		if !opt.Required {
			continue
		}
		if _, ok := sel[opt.Name]; !ok {
			missing = append(missing, opt.Name)
		}
	}
	return missing
}

// VariantLabel joins the selected labels in option order, e.g. "Navy - 48R".
// It returns nil when nothing is selected.
func VariantLabel(options []models.ProductOption, sel Selections) *string {
	var parts []string
	for _, opt := range ordered(options) {
		if v, ok := sel[opt.Name]; ok {
			parts = append(parts, v.Label)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	label := strings.Join(parts, " - ")
	return &label
}

// SelectedImage returns the index into images of the picture tied to the
// first selected value, in option order, that carries one.
func SelectedImage(options []models.ProductOption, sel Selections, images []models.ProductImage) (int, bool) {
	for _, opt := range ordered(options) {
		v, ok := sel[opt.Name]
		if !ok || v.ImageID == nil {
			continue
		}
		for i, img := range images {
			if img.ID == *v.ImageID {
				return i, true
			}
		}
	}
	return 0, false
}

// Quote is the outcome of resolving a set of choices against a product.
type Quote struct {
	ProductID  uint              `json:"product_id"`
	Price      float64           `json:"unit_price"`
	Display    string            `json:"price"`
	Currency   string            `json:"currency"`
	Variant    *string           `json:"variant"`
	Selections map[string]string `json:"selections"`
	ImageIndex *int              `json:"image_index,omitempty"`
	Image      string            `json:"image"`
	Missing    []string          `json:"missing_required"`
	Ignored    []string          `json:"ignored,omitempty"`
}

// Complete reports whether every required option has a choice.
func (q Quote) Complete() bool {
	return len(q.Missing) == 0
}

// Resolve maps option name to value label choices onto the loaded option
// data and prices the result. Choices of sold out values are ignored and
// reported in Quote.Ignored.
func Resolve(product models.Product, options []models.ProductOption, images []models.ProductImage, chosen map[string]string) (Quote, error) {
	byName := make(map[string]models.ProductOption, len(options))
	for _, opt := range options {
		byName[opt.Name] = opt
	}

	names := make([]string, 0, len(chosen))
	for name := range chosen {
		names = append(names, name)
	}
	sort.Strings(names)

	sel := Selections{}
	var ignored []string
	for _, name := range names {
		opt, ok := byName[name]
		if !ok {
			return Quote{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
		}
		value, ok := findValue(opt, chosen[name])
		if !ok {
			return Quote{}, fmt.Errorf("%w: %s=%s", ErrUnknownValue, name, chosen[name])
		}
		if !sel.Select(opt.Name, value) {
			ignored = append(ignored, name)
		}
	}

	price := ResolvePrice(product.BasePrice, sel)
	cur := LookupCurrency(product.Currency)
	q := Quote{
		ProductID:  product.ID,
		Price:      price,
		Display:    cur.Format(price),
		Currency:   cur.Code,
		Variant:    VariantLabel(options, sel),
		Selections: sel.Labels(),
		Missing:    MissingRequired(options, sel),
		Ignored:    ignored,
	}
	if q.Missing == nil {
		q.Missing = []string{}
	}
	if idx, ok := SelectedImage(options, sel, images); ok {
		q.ImageIndex = &idx
		q.Image = images[idx].ImageURL
	} else {
		q.Image = mainImage(images)
	}
	return q, nil
}

func findValue(opt models.ProductOption, label string) (models.OptionValue, bool) {
	for _, v := range opt.Values {
		if v.Label == label {
			return v, true
		}
	}
	return models.OptionValue{}, false
}

func mainImage(images []models.ProductImage) string {
	p := models.Product{Images: images}
	return p.MainImage()
}

func ordered(options []models.ProductOption) []models.ProductOption {
	out := make([]models.ProductOption, len(options))
	copy(out, options)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func orderedValues(values []models.OptionValue) []models.OptionValue {
	out := make([]models.OptionValue, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
