package pricing

import (
	"errors"
	"testing"

	"sosgog-storefront/models"
)

func uintPtr(v uint) *uint { return &v }

// woolSuit mirrors the seeded suit: three colors tied to carousel images and
// four sizes, one sold out.
func woolSuit() (models.Product, []models.ProductOption, []models.ProductImage) {
	product := models.Product{ID: 7, Name: "Wool Suit", BasePrice: 2890, Currency: "USD"}
	images := []models.ProductImage{
		{ID: 101, ImageURL: "https://img/charcoal.jpg", IsMain: true, Position: 0},
		{ID: 102, ImageURL: "https://img/navy.jpg", Position: 1},
		{ID: 103, ImageURL: "https://img/grey.jpg", Position: 2},
	}
	options := []models.ProductOption{
		{ID: 2, Name: "Size", Required: true, Position: 1, Values: []models.OptionValue{
			{Label: "46R", Status: models.OptionSoldOut, Position: 0},
			{Label: "48R", Status: models.OptionInStock, Position: 1},
			{Label: "50R", Status: models.OptionLimitedStock, PriceAdjustment: 100, Position: 2},
			{Label: "52R", Status: models.OptionInStock, PriceAdjustment: 200, Position: 3},
		}},
		{ID: 1, Name: "Color", Type: "color", Required: true, Position: 0, Values: []models.OptionValue{
			{Label: "Charcoal", Status: models.OptionInStock, ImageID: uintPtr(101), Position: 0},
			{Label: "Navy", Status: models.OptionInStock, ImageID: uintPtr(102), Position: 1},
			{Label: "Grey", Status: models.OptionInStock, ImageID: uintPtr(103), Position: 2},
		}},
	}
	return product, options, images
}

func TestResolvePriceSumsAdjustments(t *testing.T) {
	sel := Selections{
		"Color": {Label: "Navy", PriceAdjustment: 0},
		"Size":  {Label: "L", PriceAdjustment: 500},
	}
	if got := ResolvePrice(1000, sel); got != 1500 {
		t.Errorf("expected 1500, got %v", got)
	}
}

func TestResolvePriceNoSelections(t *testing.T) {
	if got := ResolvePrice(1000, Selections{}); got != 1000 {
		t.Errorf("expected base price, got %v", got)
	}
}

func TestResolvePriceNegativeAdjustment(t *testing.T) {
	sel := Selections{"Size": {PriceAdjustment: -250}}
	if got := ResolvePrice(1000, sel); got != 750 {
		t.Errorf("expected 750, got %v", got)
	}
}

func TestSelectReplacesPreviousValue(t *testing.T) {
	sel := Selections{}
	sel.Select("Size", models.OptionValue{Label: "S", PriceAdjustment: 500, Status: models.OptionInStock})
	sel.Select("Size", models.OptionValue{Label: "M", PriceAdjustment: 800, Status: models.OptionInStock})

	if len(sel) != 1 {
		t.Fatalf("expected one selection, got %d", len(sel))
	}
	if got := ResolvePrice(1000, sel); got != 1800 {
		t.Errorf("expected 1800, got %v", got)
	}
}

func TestSelectSoldOutIsNoOp(t *testing.T) {
	sel := Selections{}
	sel.Select("Size", models.OptionValue{Label: "48R", Status: models.OptionInStock})

	if sel.Select("Size", models.OptionValue{Label: "46R", Status: models.OptionSoldOut}) {
		t.Error("sold out value should not be selectable")
	}
	if sel["Size"].Label != "48R" {
		t.Errorf("expected previous selection kept, got %q", sel["Size"].Label)
	}
}

func TestSelectLimitedStockAllowed(t *testing.T) {
	sel := Selections{}
	if !sel.Select("Size", models.OptionValue{Label: "50R", Status: models.OptionLimitedStock}) {
		t.Error("limited stock value should be selectable")
	}
}

func TestDeselect(t *testing.T) {
	sel := Selections{"Color": {Label: "Navy"}}
	sel.Deselect("Color")
	sel.Deselect("Missing")
	if len(sel) != 0 {
		t.Errorf("expected empty selections, got %v", sel)
	}
}

func TestDefaultSelectionsSkipsSoldOut(t *testing.T) {
	_, options, _ := woolSuit()
	sel := DefaultSelections(options)

	if sel["Color"].Label != "Charcoal" {
		t.Errorf("expected Charcoal, got %q", sel["Color"].Label)
	}
	if sel["Size"].Label != "48R" {
		t.Errorf("expected first selectable size 48R, got %q", sel["Size"].Label)
	}
}

func TestDefaultSelectionsIgnoresOptional(t *testing.T) {
	options := []models.ProductOption{
		{Name: "Monogram", Required: false, Values: []models.OptionValue{{Label: "Yes", Status: models.OptionInStock}}},
	}
	if sel := DefaultSelections(options); len(sel) != 0 {
		t.Errorf("expected no defaults for optional options, got %v", sel)
	}
}

func TestMissingRequired(t *testing.T) {
	_, options, _ := woolSuit()
	sel := Selections{"Size": {Label: "48R"}}

	missing := MissingRequired(options, sel)
	if len(missing) != 1 || missing[0] != "Color" {
		t.Errorf("expected [Color], got %v", missing)
	}
}

func TestVariantLabelUsesOptionOrder(t *testing.T) {
	_, options, _ := woolSuit()
	sel := Selections{"Size": {Label: "48R"}, "Color": {Label: "Navy"}}

	label := VariantLabel(options, sel)
	if label == nil || *label != "Navy - 48R" {
		t.Errorf("expected \"Navy - 48R\", got %v", label)
	}
}

func TestVariantLabelNilWithoutSelection(t *testing.T) {
	_, options, _ := woolSuit()
	if label := VariantLabel(options, Selections{}); label != nil {
		t.Errorf("expected nil, got %q", *label)
	}
}

func TestSelectedImage(t *testing.T) {
	_, options, images := woolSuit()
	sel := Selections{"Color": options[1].Values[2]}

	idx, ok := SelectedImage(options, sel, images)
	if !ok || idx != 2 {
		t.Errorf("expected image 2, got %d (%v)", idx, ok)
	}

	if _, ok := SelectedImage(options, Selections{"Size": options[0].Values[1]}, images); ok {
		t.Error("size carries no image association")
	}
}

func TestResolveQuote(t *testing.T) {
	product, options, images := woolSuit()
	q, err := Resolve(product, options, images, map[string]string{"Color": "Grey", "Size": "52R"})
	if err != nil {
		t.Fatal(err)
	}

	if q.Price != 3090 {
		t.Errorf("expected 3090, got %v", q.Price)
	}
	if q.Display != "$3,090" {
		t.Errorf("expected $3,090, got %q", q.Display)
	}
	if q.Variant == nil || *q.Variant != "Grey - 52R" {
		t.Errorf("unexpected variant %v", q.Variant)
	}
	if q.ImageIndex == nil || *q.ImageIndex != 2 || q.Image != "https://img/grey.jpg" {
		t.Errorf("expected grey image, got %v %q", q.ImageIndex, q.Image)
	}
	if !q.Complete() {
		t.Errorf("expected complete quote, missing %v", q.Missing)
	}
}

func TestResolveIgnoresSoldOutChoice(t *testing.T) {
	product, options, images := woolSuit()
	q, err := Resolve(product, options, images, map[string]string{"Color": "Navy", "Size": "46R"})
	if err != nil {
		t.Fatal(err)
	}

	if len(q.Ignored) != 1 || q.Ignored[0] != "Size" {
		t.Errorf("expected Size ignored, got %v", q.Ignored)
	}
	if len(q.Missing) != 1 || q.Missing[0] != "Size" {
		t.Errorf("expected Size missing, got %v", q.Missing)
	}
	if q.Price != 2890 {
		t.Errorf("expected base price, got %v", q.Price)
	}
}

func TestResolveNoChoicesFallsBackToMainImage(t *testing.T) {
	product, options, images := woolSuit()
	q, err := Resolve(product, options, images, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.Variant != nil {
		t.Errorf("expected nil variant, got %q", *q.Variant)
	}
	if q.Image != "https://img/charcoal.jpg" || q.ImageIndex != nil {
		t.Errorf("expected main image, got %q", q.Image)
	}
	if len(q.Missing) != 2 {
		t.Errorf("expected both options missing, got %v", q.Missing)
	}
}

func TestResolveUnknownOption(t *testing.T) {
	product, options, images := woolSuit()
	_, err := Resolve(product, options, images, map[string]string{"Fabric": "Tweed"})
	if !errors.Is(err, ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
}

func TestResolveUnknownValue(t *testing.T) {
	product, options, images := woolSuit()
	_, err := Resolve(product, options, images, map[string]string{"Color": "Purple"})
	if !errors.Is(err, ErrUnknownValue) {
		t.Errorf("expected ErrUnknownValue, got %v", err)
	}
}
