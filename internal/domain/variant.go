package domain

import (
	"time"

	"github.com/google/uuid"
)

// Variant represents a sellable variation of a product (size, color, material).
// A variant belongs to exactly one product.
type Variant struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	ProductID    uuid.UUID    `json:"product_id" db:"product_id"`
	Name         string       `json:"name" db:"name"`
	Size         string       `json:"size,omitempty" db:"size"`
	Color        string       `json:"color,omitempty" db:"color"`
	Material     string       `json:"material,omitempty" db:"material"`
	Price        float64      `json:"price" db:"price"`
	Discount     float64      `json:"discount" db:"discount"`
	DiscountType DiscountType `json:"discount_type" db:"discount_type"`
	Inventory    int          `json:"inventory" db:"inventory"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
