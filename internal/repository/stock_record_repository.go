package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

var ErrStockRecordNotFound = errors.New("stock record not found")

// StockRecordRepository defines the interface for the per-(product, variant
// key) stock ledger. One record exists per pair.
type StockRecordRepository interface {
	Upsert(ctx context.Context, productID uuid.UUID, variantKey string, stock int) error
	Find(ctx context.Context, productID uuid.UUID, variantKey string) (*domain.StockRecord, error)
}

type stockRecordRepository struct {
	db *sql.DB
}

// NewStockRecordRepository creates a new instance of StockRecordRepository
func NewStockRecordRepository(db *sql.DB) StockRecordRepository {
	return &stockRecordRepository{db: db}
}

// Upsert writes the current stock for the (product, variant key) pair,
// relying on the unique index to keep one row per pair
func (r *stockRecordRepository) Upsert(ctx context.Context, productID uuid.UUID, variantKey string, stock int) error {
	query := `
		INSERT INTO stock_records (id, product_id, variant_key, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (product_id, variant_key)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), productID, variantKey, stock)
	if err != nil {
		return fmt.Errorf("failed to upsert stock record: %w", err)
	}

	return nil
}

// Find retrieves the stock record for the (product, variant key) pair
func (r *stockRecordRepository) Find(ctx context.Context, productID uuid.UUID, variantKey string) (*domain.StockRecord, error) {
	query := `
		SELECT id, product_id, variant_key, stock, created_at, updated_at
		FROM stock_records
		WHERE product_id = $1 AND variant_key = $2
	`

	record := &domain.StockRecord{}
	err := r.db.QueryRowContext(ctx, query, productID, variantKey).Scan(
		&record.ID,
		&record.ProductID,
		&record.VariantKey,
		&record.Stock,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStockRecordNotFound
		}
		return nil, fmt.Errorf("failed to find stock record: %w", err)
	}

	return record, nil
}
