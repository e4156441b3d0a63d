package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStockKey is the variant key used for stock held against the product
// itself rather than one of its variants.
const ProductStockKey = "product"

// StockRecord is the per-(product, variant key) stock ledger entry kept in
// sync by the inventory service on every stock mutation. Unique per pair.
type StockRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	VariantKey string    `json:"variant_key" db:"variant_key"`
	Stock      int       `json:"stock" db:"stock"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
