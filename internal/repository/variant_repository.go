package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

var ErrVariantNotFound = errors.New("variant not found")

// VariantFilter narrows a variant listing. ProductIDs restricts to variants
// of those products; the remaining fields are applied per variant.
type VariantFilter struct {
	ProductIDs []uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	Size       string
	Color      string
}

const variantColumns = `id, product_id, name, size, color, material, price, discount, discount_type, inventory, created_at, updated_at`

// VariantRepository defines the interface for variant data access
type VariantRepository interface {
	Create(ctx context.Context, variant *domain.Variant) error
	Update(ctx context.Context, variant *domain.Variant) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error)
	List(ctx context.Context) ([]*domain.Variant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Variant, error)
	ListFiltered(ctx context.Context, filter VariantFilter) ([]*domain.Variant, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Variant, error)
	LowStock(ctx context.Context, threshold int) ([]*domain.Variant, error)
}

type variantRepository struct {
	db *sql.DB
}

// NewVariantRepository creates a new instance of VariantRepository
func NewVariantRepository(db *sql.DB) VariantRepository {
	return &variantRepository{db: db}
}

// Create inserts a new variant into the database using parameterized queries
func (r *variantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	query := `
		INSERT INTO variants (id, product_id, name, size, color, material, price, discount, discount_type, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		variant.ID,
		variant.ProductID,
		variant.Name,
		variant.Size,
		variant.Color,
		variant.Material,
		variant.Price,
		variant.Discount,
		variant.DiscountType,
		variant.Inventory,
		variant.CreatedAt,
		variant.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}

	return nil
}

// Update updates an existing variant in the database using parameterized queries
func (r *variantRepository) Update(ctx context.Context, variant *domain.Variant) error {
	query := `
		UPDATE variants
		SET name = $2, size = $3, color = $4, material = $5, price = $6,
		    discount = $7, discount_type = $8, inventory = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		variant.ID,
		variant.Name,
		variant.Size,
		variant.Color,
		variant.Material,
		variant.Price,
		variant.Discount,
		variant.DiscountType,
		variant.Inventory,
		variant.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// Delete removes a variant from the database using parameterized queries
func (r *variantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM variants WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

// FindByID retrieves a variant by ID using parameterized queries
func (r *variantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant by ID: %w", err)
	}

	return variant, nil
}

// List retrieves all variants
func (r *variantRepository) List(ctx context.Context) ([]*domain.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	return collectVariants(rows)
}

// ListByProduct retrieves all variants belonging to a product
func (r *variantRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE product_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants by product: %w", err)
	}
	defer rows.Close()

	return collectVariants(rows)
}

// ListFiltered retrieves variants of the given products matching the
// price, stock and attribute filters
func (r *variantRepository) ListFiltered(ctx context.Context, filter VariantFilter) ([]*domain.Variant, error) {
	if len(filter.ProductIDs) == 0 {
		return []*domain.Variant{}, nil
	}

	placeholders := ""
	args := []interface{}{}
	argIndex := 1
	for _, id := range filter.ProductIDs {
		if placeholders != "" {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", argIndex)
		args = append(args, id)
		argIndex++
	}
	where := fmt.Sprintf("WHERE product_id IN (%s)", placeholders)

	if filter.MinPrice != nil {
		where += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		where += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if filter.InStock {
		where += " AND inventory > 0"
	}

	if filter.Size != "" {
		where += fmt.Sprintf(" AND size = $%d", argIndex)
		args = append(args, filter.Size)
		argIndex++
	}

	if filter.Color != "" {
		where += fmt.Sprintf(" AND color = $%d", argIndex)
		args = append(args, filter.Color)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT `+variantColumns+` FROM variants %s ORDER BY created_at ASC`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list filtered variants: %w", err)
	}
	defer rows.Close()

	return collectVariants(rows)
}

// SetStock replaces the stored inventory value. Last writer wins.
func (r *variantRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Variant, error) {
	query := `
		UPDATE variants
		SET inventory = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + variantColumns

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, id, stock))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to set variant stock: %w", err)
	}

	return variant, nil
}

// LowStock retrieves variants with inventory strictly below the threshold
func (r *variantRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE inventory < $1 ORDER BY inventory ASC`

	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock variants: %w", err)
	}
	defer rows.Close()

	return collectVariants(rows)
}

func scanVariant(row rowScanner) (*domain.Variant, error) {
	variant := &domain.Variant{}
	var size, color, material sql.NullString

	err := row.Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.Name,
		&size,
		&color,
		&material,
		&variant.Price,
		&variant.Discount,
		&variant.DiscountType,
		&variant.Inventory,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	variant.Size = size.String
	variant.Color = color.String
	variant.Material = material.String

	return variant, nil
}

func collectVariants(rows *sql.Rows) ([]*domain.Variant, error) {
	variants := []*domain.Variant{}
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, variant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, nil
}
