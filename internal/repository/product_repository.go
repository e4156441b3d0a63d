package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough inventory available")
)

// SortKey selects the ordering of a product listing
type SortKey string

const (
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortDateNewest SortKey = "date_newest"
	SortDateOldest SortKey = "date_oldest"
)

// ProductFilter narrows and orders a product listing
type ProductFilter struct {
	Search     string     // case-insensitive substring match on name
	CategoryID *uuid.UUID // resolved from a category name by the service
	Sort       SortKey
}

const productColumns = `id, name, description, category_id, price, discount, discount_type, inventory, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Product, error)
	AddStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error)
	RemoveStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, price, discount float64, mode domain.DiscountType) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, category_id, price, discount, discount_type, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.CategoryID,
		product.Price,
		product.Discount,
		product.DiscountType,
		product.Inventory,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, price = $5,
		    discount = $6, discount_type = $7, inventory = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.CategoryID,
		product.Price,
		product.Discount,
		product.DiscountType,
		product.Inventory,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter, ordered by the sort key.
// Price sorts order by price; the date sorts order by creation time.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if filter.Search != "" {
		whereClause = fmt.Sprintf("WHERE name ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		if whereClause == "" {
			whereClause = fmt.Sprintf("WHERE category_id = $%d", argIndex)
		} else {
			whereClause += fmt.Sprintf(" AND category_id = $%d", argIndex)
		}
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	orderBy := orderClause(filter.Sort)

	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products %s ORDER BY %s`, whereClause, orderBy)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// SetStock replaces the stored inventory value. Last writer wins.
func (r *productRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET inventory = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, stock))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to set product stock: %w", err)
	}

	return product, nil
}

// AddStock increments inventory in a single statement so concurrent
// increments against the same row are serialized by the database.
func (r *productRepository) AddStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET inventory = inventory + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to increase product stock: %w", err)
	}

	return product, nil
}

// RemoveStock decrements inventory with a stock guard in the WHERE clause,
// so a concurrent decrement can never drive inventory negative.
func (r *productRepository) RemoveStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET inventory = inventory - $2, updated_at = NOW()
		WHERE id = $1 AND inventory >= $2
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, amount))
	if err == nil {
		return product, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to decrease product stock: %w", err)
	}

	// No row updated: either the product is missing or the guard rejected
	// the decrement. Distinguish the two for the caller.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, ErrInsufficientStock
}

// LowStock retrieves products with inventory strictly below the threshold
func (r *productRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE inventory < $1 ORDER BY inventory ASC`

	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// UpdatePricing replaces price, discount and discount type for a product
func (r *productRepository) UpdatePricing(ctx context.Context, id uuid.UUID, price, discount float64, mode domain.DiscountType) (*domain.Product, error) {
	query := `
		UPDATE products
		SET price = $2, discount = $3, discount_type = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, price, discount, mode))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product pricing: %w", err)
	}

	return product, nil
}

func orderClause(sort SortKey) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC"
	case SortPriceDesc:
		return "price DESC"
	case SortDateOldest:
		return "created_at ASC"
	case SortDateNewest:
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.CategoryID,
		&product.Price,
		&product.Discount,
		&product.DiscountType,
		&product.Inventory,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
