package domain

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType determines how a discount is applied to a price
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether the discount type is one of the supported modes
func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// Product represents a product in the catalog
type Product struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	CategoryID   uuid.UUID    `json:"category_id" db:"category_id"`
	Price        float64      `json:"price" db:"price"`
	Discount     float64      `json:"discount" db:"discount"`
	DiscountType DiscountType `json:"discount_type" db:"discount_type"`
	Inventory    int          `json:"inventory" db:"inventory"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
