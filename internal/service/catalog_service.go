package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/pricing"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNoProductsFound    = errors.New("no products found with given filters")
	ErrInvalidCategory    = errors.New("invalid category name provided")
	ErrInvalidPrice       = errors.New("price must be a non-negative number")
	ErrInvalidStockValue  = errors.New("inventory must be a non-negative number")
	ErrInvalidDiscount    = pricing.ErrInvalidDiscount
	ErrInvalidDiscountTyp = pricing.ErrInvalidMode
)

// ProductListFilters are the caller-supplied filters for a product listing.
// MinPrice, MaxPrice, InStock, Size and Color apply to variants of the
// matched products, not to the products themselves.
type ProductListFilters struct {
	Search   string
	Category string // category name; unknown names fail with not-found
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	InStock  bool
	Size     string
	Color    string
}

// VariantView is a variant annotated with its derived final price
type VariantView struct {
	domain.Variant
	FinalPrice float64 `json:"final_price"`
}

// ProductView is a product annotated with its category, derived final
// price, and (filtered) variants. Final prices are computed at read time
// and never persisted.
type ProductView struct {
	domain.Product
	Category   *domain.Category `json:"category,omitempty"`
	FinalPrice float64          `json:"final_price"`
	Variants   []VariantView    `json:"variants"`
}

// CreateProductInput carries the fields for creating a product. Category is
// a category name resolved against the store.
type CreateProductInput struct {
	Name         string
	Description  string
	Category     string
	Price        float64
	Discount     float64
	DiscountType domain.DiscountType
	Inventory    int
}

// UpdateProductInput carries optional fields for a partial product update
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Category     *string
	Price        *float64
	Discount     *float64
	DiscountType *domain.DiscountType
	Inventory    *int
}

// CatalogService defines the business logic for products, variants and
// categories
type CatalogService interface {
	ListProducts(ctx context.Context, filters ProductListFilters) ([]ProductView, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context) ([]VariantView, error)
	VariantsByProduct(ctx context.Context, productID uuid.UUID) ([]VariantView, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*domain.Variant, error)
	CreateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error)
	UpdateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

// ParseSortKey maps a caller-supplied sort string to a repository sort key.
// Unknown values fall back to newest-first.
func ParseSortKey(sort string) repository.SortKey {
	switch repository.SortKey(sort) {
	case repository.SortPriceAsc, repository.SortPriceDesc, repository.SortDateOldest, repository.SortDateNewest:
		return repository.SortKey(sort)
	default:
		return repository.SortDateNewest
	}
}

// ListProducts retrieves products matching the filters, then retrieves the
// variants of those products with the variant-level filters applied, and
// annotates everything with final prices. Zero product matches fail with
// ErrNoProductsFound rather than returning an empty list.
func (s *catalogService) ListProducts(ctx context.Context, filters ProductListFilters) ([]ProductView, error) {
	productFilter := repository.ProductFilter{
		Search: filters.Search,
		Sort:   ParseSortKey(filters.Sort),
	}

	if filters.Category != "" {
		category, err := s.categoryRepo.FindByName(ctx, filters.Category)
		if err != nil {
			return nil, err
		}
		productFilter.CategoryID = &category.ID
	}

	products, err := s.productRepo.List(ctx, productFilter)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, ErrNoProductsFound
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	variants, err := s.variantRepo.ListFiltered(ctx, repository.VariantFilter{
		ProductIDs: productIDs,
		MinPrice:   filters.MinPrice,
		MaxPrice:   filters.MaxPrice,
		InStock:    filters.InStock,
		Size:       filters.Size,
		Color:      filters.Color,
	})
	if err != nil {
		return nil, err
	}

	variantsByProduct := make(map[uuid.UUID][]VariantView)
	for _, v := range variants {
		variantsByProduct[v.ProductID] = append(variantsByProduct[v.ProductID], annotateVariant(v))
	}

	categories, err := s.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := annotateProduct(p)
		view.Category = categories[p.CategoryID]
		if vs, ok := variantsByProduct[p.ID]; ok {
			view.Variants = vs
		}
		views = append(views, view)
	}

	return views, nil
}

// GetProduct retrieves one product with its category and all of its
// variants, annotated with final prices
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
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

// CreateProduct validates the input, resolves the category name and inserts
// the product. Unknown category names fail with ErrInvalidCategory.
func (s *catalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if input.Inventory < 0 {
		return nil, ErrInvalidStockValue
	}
	if err := pricing.ValidateDiscount(input.Discount); err != nil {
		return nil, err
	}
	if err := pricing.ValidateMode(input.DiscountType); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByName(ctx, input.Category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrInvalidCategory
		}
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		CategoryID:   category.ID,
		Price:        input.Price,
		Discount:     input.Discount,
		DiscountType: pricing.NormalizeMode(input.DiscountType),
		Inventory:    input.Inventory,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies a partial update to a product. A supplied category
// name is resolved the same way as on create.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		category, err := s.categoryRepo.FindByName(ctx, *input.Category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrInvalidCategory
			}
			return nil, err
		}
		product.CategoryID = category.ID
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.Discount != nil {
		if err := pricing.ValidateDiscount(*input.Discount); err != nil {
			return nil, err
		}
		product.Discount = *input.Discount
	}
	if input.DiscountType != nil {
		if err := pricing.ValidateMode(*input.DiscountType); err != nil {
			return nil, err
		}
		product.DiscountType = pricing.NormalizeMode(*input.DiscountType)
	}
	if input.Inventory != nil {
		if *input.Inventory < 0 {
			return nil, ErrInvalidStockValue
		}
		product.Inventory = *input.Inventory
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct hard-deletes a product
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// ListVariants retrieves all variants annotated with final prices
func (s *catalogService) ListVariants(ctx context.Context) ([]VariantView, error) {
	variants, err := s.variantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]VariantView, 0, len(variants))
	for _, v := range variants {
		views = append(views, annotateVariant(v))
	}
	return views, nil
}

// VariantsByProduct retrieves the variants of a product annotated with
// final prices
func (s *catalogService) VariantsByProduct(ctx context.Context, productID uuid.UUID) ([]VariantView, error) {
	variants, err := s.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]VariantView, 0, len(variants))
	for _, v := range variants {
		views = append(views, annotateVariant(v))
	}
	return views, nil
}

// GetVariant retrieves a variant by ID
func (s *catalogService) GetVariant(ctx context.Context, id uuid.UUID) (*domain.Variant, error) {
	return s.variantRepo.FindByID(ctx, id)
}

// CreateVariant validates and inserts a variant. The owning product must
// exist.
func (s *catalogService) CreateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error) {
	if variant.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if variant.Inventory < 0 {
		return nil, ErrInvalidStockValue
	}
	if err := pricing.ValidateDiscount(variant.Discount); err != nil {
		return nil, err
	}
	if err := pricing.ValidateMode(variant.DiscountType); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, variant.ProductID); err != nil {
		return nil, err
	}

	now := time.Now()
	variant.ID = uuid.New()
	variant.DiscountType = pricing.NormalizeMode(variant.DiscountType)
	variant.CreatedAt = now
	variant.UpdatedAt = now

	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}

	return variant, nil
}

// UpdateVariant validates and updates a variant
func (s *catalogService) UpdateVariant(ctx context.Context, variant *domain.Variant) (*domain.Variant, error) {
	if variant.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if variant.Inventory < 0 {
		return nil, ErrInvalidStockValue
	}
	if err := pricing.ValidateDiscount(variant.Discount); err != nil {
		return nil, err
	}
	if err := pricing.ValidateMode(variant.DiscountType); err != nil {
		return nil, err
	}

	variant.DiscountType = pricing.NormalizeMode(variant.DiscountType)
	variant.UpdatedAt = time.Now()

	if err := s.variantRepo.Update(ctx, variant); err != nil {
		return nil, err
	}

	return variant, nil
}

// DeleteVariant hard-deletes a variant
func (s *catalogService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return s.variantRepo.Delete(ctx, id)
}

// ListCategories retrieves all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategory retrieves a category by ID
func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// CreateCategory inserts a category with a unique name
func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory updates a category's name and description
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name, description string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		category.Name = name
	}
	if description != "" {
		category.Description = description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory hard-deletes a category. Products referencing it are not
// cascade-deleted.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *catalogService) categoriesByID(ctx context.Context) (map[uuid.UUID]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID, nil
}

func annotateProduct(p *domain.Product) ProductView {
	return ProductView{
		Product:    *p,
		FinalPrice: pricing.FinalPrice(p.Price, p.Discount, p.DiscountType),
		Variants:   []VariantView{},
	}
}

func annotateVariant(v *domain.Variant) VariantView {
	return VariantView{
		Variant:    *v,
		FinalPrice: pricing.FinalPrice(v.Price, v.Discount, v.DiscountType),
	}
}
