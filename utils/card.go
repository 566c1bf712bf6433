package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	monthPattern      = regexp.MustCompile(`^(0?[1-9]|1[0-2])$`)
	yearPattern       = regexp.MustCompile(`^(\d{2}|\d{4})$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// NormalizeCardNumber drops the spaces and dashes shoppers type between
// digit groups.
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

// ValidateCardFormat checks the shape of the card fields only. No payment is
// taken.
func ValidateCardFormat(number, month, year, cvv string) error {
	if !cardNumberPattern.MatchString(NormalizeCardNumber(number)) {
		return errors.New("card number is invalid")
	}
	if !monthPattern.MatchString(strings.TrimSpace(month)) {
		return errors.New("expiry month is invalid")
	}
	if !yearPattern.MatchString(strings.TrimSpace(year)) {
		return errors.New("expiry year is invalid")
	}
	if !cvvPattern.MatchString(strings.TrimSpace(cvv)) {
		return errors.New("cvv is invalid")
	}
	return nil
}

// CardLastFour returns the last four digits of a card number.
func CardLastFour(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
