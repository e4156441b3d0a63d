// Package pricing computes final sale prices from base prices and discounts.
// All functions are pure and safe for concurrent use.
package pricing

import (
	"errors"
	"math"

	"catalog-api/internal/domain"
)

var (
	ErrInvalidDiscount = errors.New("discount must be a non-negative number")
	ErrInvalidMode     = errors.New("discount type must be 'percentage' or 'fixed'")
)

// FinalPrice returns the sale price after applying the discount.
//
// Percentage discounts are not clamped: a discount above 100 yields a
// negative price. Fixed discounts are floored at zero. A zero discount
// returns the base price unchanged, without rounding.
func FinalPrice(price, discount float64, mode domain.DiscountType) float64 {
	if discount == 0 {
		return price
	}

	final := price
	switch mode {
	case domain.DiscountPercentage:
		final = price - price*(discount/100)
	case domain.DiscountFixed:
		final = math.Max(price-discount, 0)
	}

	return Round2(final)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateDiscount rejects discounts that FinalPrice would otherwise
// silently compute with: negative values and NaN.
func ValidateDiscount(discount float64) error {
	if math.IsNaN(discount) || discount < 0 {
		return ErrInvalidDiscount
	}
	return nil
}

// ValidateMode checks the discount type. The empty string is accepted and
// treated as percentage, matching the stored column default.
func ValidateMode(mode domain.DiscountType) error {
	if mode == "" || mode.Valid() {
		return nil
	}
	return ErrInvalidMode
}

// NormalizeMode maps the empty discount type to the percentage default.
func NormalizeMode(mode domain.DiscountType) domain.DiscountType {
	if mode == "" {
		return domain.DiscountPercentage
	}
	return mode
}
