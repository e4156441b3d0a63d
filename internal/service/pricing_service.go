package service

import (
	"context"

	"catalog-api/internal/domain"
	"catalog-api/internal/pricing"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// PricingService updates product pricing and reads back discount-annotated
// products
type PricingService interface {
	UpdateProductPricing(ctx context.Context, id uuid.UUID, price, discount float64, mode domain.DiscountType) (*ProductView, error)
	GetProductPricing(ctx context.Context, id uuid.UUID) (*ProductView, error)
}

type pricingService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	categoryRepo repository.CategoryRepository
}

// NewPricingService creates a new instance of PricingService
func NewPricingService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
) PricingService {
	return &pricingService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

// UpdateProductPricing replaces price, discount and discount type, and
// returns the product annotated with the resulting final price
func (s *pricingService) UpdateProductPricing(ctx context.Context, id uuid.UUID, price, discount float64, mode domain.DiscountType) (*ProductView, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if err := pricing.ValidateDiscount(discount); err != nil {
		return nil, err
	}
	if err := pricing.ValidateMode(mode); err != nil {
		return nil, err
	}

	product, err := s.productRepo.UpdatePricing(ctx, id, price, discount, pricing.NormalizeMode(mode))
	if err != nil {
		return nil, err
	}

	view := annotateProduct(product)
	return &view, nil
}

// GetProductPricing retrieves a product with its category and variants, all
// annotated with final prices
func (s *pricingService) GetProductPricing(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := annotateProduct(product)

	if category, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err == nil {
		view.Category = category
	}

	variants, err := s.variantRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		view.Variants = append(view.Variants, annotateVariant(v))
	}

	return &view, nil
}
