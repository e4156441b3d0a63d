package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold is used when the caller supplies none
const DefaultLowStockThreshold = 5

var (
	ErrInvalidStock     = errors.New("invalid stock value, must be a non-negative number")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrInvalidThreshold = errors.New("invalid threshold value")
)

// InventoryService defines stock mutations and low-stock queries.
// Absolute sets are last-writer-wins; increments and decrements are single
// guarded statements so the store serializes concurrent writers.
type InventoryService interface {
	SetProductStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Product, error)
	SetVariantStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Variant, error)
	IncreaseProductStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error)
	DecreaseProductStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error)
	LowStockProducts(ctx context.Context, threshold int) ([]*domain.Product, error)
	LowStockVariants(ctx context.Context, threshold int) ([]*domain.Variant, error)
	ProductStockRecord(ctx context.Context, id uuid.UUID) (*domain.StockRecord, error)
	VariantStockRecord(ctx context.Context, id uuid.UUID) (*domain.StockRecord, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	stockRepo   repository.StockRecordRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	stockRepo repository.StockRecordRepository,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		stockRepo:   stockRepo,
	}
}

// SetProductStock replaces a product's inventory with an absolute value
func (s *inventoryService) SetProductStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Product, error) {
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	product, err := s.productRepo.SetStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.Upsert(ctx, product.ID, domain.ProductStockKey, product.Inventory); err != nil {
		return nil, fmt.Errorf("failed to record product stock: %w", err)
	}

	return product, nil
}

// SetVariantStock replaces a variant's inventory with an absolute value
func (s *inventoryService) SetVariantStock(ctx context.Context, id uuid.UUID, stock int) (*domain.Variant, error) {
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	variant, err := s.variantRepo.SetStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.Upsert(ctx, variant.ProductID, variant.ID.String(), variant.Inventory); err != nil {
		return nil, fmt.Errorf("failed to record variant stock: %w", err)
	}

	return variant, nil
}

// IncreaseProductStock adds amount to a product's inventory
func (s *inventoryService) IncreaseProductStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	product, err := s.productRepo.AddStock(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.Upsert(ctx, product.ID, domain.ProductStockKey, product.Inventory); err != nil {
		return nil, fmt.Errorf("failed to record product stock: %w", err)
	}

	return product, nil
}

// DecreaseProductStock subtracts amount from a product's inventory. Fails
// with repository.ErrInsufficientStock if amount exceeds current stock,
// leaving stock unchanged.
func (s *inventoryService) DecreaseProductStock(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	product, err := s.productRepo.RemoveStock(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.Upsert(ctx, product.ID, domain.ProductStockKey, product.Inventory); err != nil {
		return nil, fmt.Errorf("failed to record product stock: %w", err)
	}

	return product, nil
}

// LowStockProducts retrieves products with inventory strictly below the
// threshold
func (s *inventoryService) LowStockProducts(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if threshold < 0 {
		return nil, ErrInvalidThreshold
	}
	return s.productRepo.LowStock(ctx, threshold)
}

// LowStockVariants retrieves variants with inventory strictly below the
// threshold
func (s *inventoryService) LowStockVariants(ctx context.Context, threshold int) ([]*domain.Variant, error) {
	if threshold < 0 {
		return nil, ErrInvalidThreshold
	}
	return s.variantRepo.LowStock(ctx, threshold)
}

// ProductStockRecord retrieves the ledger entry for product-level stock
func (s *inventoryService) ProductStockRecord(ctx context.Context, id uuid.UUID) (*domain.StockRecord, error) {
	return s.stockRepo.Find(ctx, id, domain.ProductStockKey)
}

// VariantStockRecord retrieves the ledger entry for a variant's stock. The
// ledger is keyed by product, so the variant is resolved first.
func (s *inventoryService) VariantStockRecord(ctx context.Context, id uuid.UUID) (*domain.StockRecord, error) {
	variant, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.Find(ctx, variant.ProductID, variant.ID.String())
}
