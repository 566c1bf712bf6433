package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNoDigits = errors.New("price has no digits")

// ParseDisplayPrice turns a formatted price such as "Rs. 1,234.50" or
// "$2,890" back into a number. A known currency symbol or code is stripped
// first; of the rest only digits and the decimal point count.
func ParseDisplayPrice(s string) (float64, error) {
	rest := strings.TrimSpace(stripCurrencyPrefix(strings.TrimSpace(s)))

	start := strings.IndexFunc(rest, unicode.IsDigit)
	if start < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDigits, s)
	}
	// ".50" keeps its decimal point.
	if start > 0 && rest[start-1] == '.' {
		start--
	}

	var b strings.Builder
	for _, r := range rest[start:] {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return v, nil
}

// Longest first, so "Rs." wins over "Rs".
var currencyPrefixes = []string{"PKR", "USD", "GBP", "EUR", "Rs.", "Rs", "$", "£", "€"}

func stripCurrencyPrefix(s string) string {
	for _, p := range currencyPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return s[len(p):]
		}
	}
	return s
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

var currencies = map[string]Currency{
	"PKR": {Code: "PKR", Symbol: "Rs. "},
	"USD": {Code: "USD", Symbol: "$"},
	"GBP": {Code: "GBP", Symbol: "£"},
	"EUR": {Code: "EUR", Symbol: "€"},
}

// DefaultCurrency is used for products without a currency code.
var DefaultCurrency = currencies["PKR"]

// LookupCurrency returns the known currency for code. Unknown codes are
// rendered with the code itself as prefix.
func LookupCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	if c, ok := currencies[code]; ok {
		return c
	}
	return Currency{Code: code, Symbol: code + " "}
}

var printer = message.NewPrinter(language.English)

// Format renders amount with the currency prefix and English digit grouping.
// Whole amounts drop the decimals: "Rs. 1,000", "$1,234.50".
func (c Currency) Format(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole, frac := cents/100, cents%100

	s := printer.Sprintf("%d", whole)
	if frac != 0 {
		s += fmt.Sprintf(".%02d", frac)
	}
	return sign + c.Symbol + s
}
