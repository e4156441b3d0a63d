package repository

import (
	"context"
	"testing"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

func seedVariant(t *testing.T, ctx context.Context, repo VariantRepository, productID uuid.UUID, size, color string, price float64, inventory int) *domain.Variant {
	t.Helper()

	variant := &domain.Variant{
		ID:           uuid.New(),
		ProductID:    productID,
		Name:         "Variant " + size + " " + color,
		Size:         size,
		Color:        color,
		Material:     "cotton",
		Price:        price,
		Discount:     0,
		DiscountType: domain.DiscountPercentage,
		Inventory:    inventory,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, variant); err != nil {
		t.Fatalf("Failed to create variant: %v", err)
	}
	return variant
}

func TestVariantRepository_ListFiltered(t *testing.T) {
	ensureCatalogTables(t)
	ctx := context.Background()

	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	variantRepo := NewVariantRepository(testDB)

	category := createTestCategory(t, ctx, categoryRepo)
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "Filter Test Product",
		Description:  "variant filtering",
		CategoryID:   category.ID,
		Price:        25.00,
		Discount:     0,
		DiscountType: domain.DiscountPercentage,
		Inventory:    10,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	defer productRepo.Delete(ctx, product.ID)

	smallRed := seedVariant(t, ctx, variantRepo, product.ID, "S", "red", 19.99, 5)
	largeRed := seedVariant(t, ctx, variantRepo, product.ID, "L", "red", 29.99, 0)
	largeBlue := seedVariant(t, ctx, variantRepo, product.ID, "L", "blue", 24.99, 3)

	t.Run("filters by size", func(t *testing.T) {
		variants, err := variantRepo.ListFiltered(ctx, VariantFilter{
			ProductIDs: []uuid.UUID{product.ID},
			Size:       "L",
		})
		if err != nil {
			t.Fatalf("ListFiltered failed: %v", err)
		}
		if len(variants) != 2 {
			t.Fatalf("Expected 2 variants of size L, got %d", len(variants))
		}
		for _, v := range variants {
			if v.Size != "L" {
				t.Errorf("Expected size L, got %s", v.Size)
			}
		}
	})

	t.Run("filters by size and color", func(t *testing.T) {
		variants, err := variantRepo.ListFiltered(ctx, VariantFilter{
			ProductIDs: []uuid.UUID{product.ID},
			Size:       "L",
			Color:      "blue",
		})
		if err != nil {
			t.Fatalf("ListFiltered failed: %v", err)
		}
		if len(variants) != 1 {
			t.Fatalf("Expected 1 variant, got %d", len(variants))
		}
		if variants[0].ID != largeBlue.ID {
			t.Errorf("Expected variant %s, got %s", largeBlue.ID, variants[0].ID)
		}
	})

	t.Run("filters by price range", func(t *testing.T) {
		minPrice := 20.00
		maxPrice := 27.00
		variants, err := variantRepo.ListFiltered(ctx, VariantFilter{
			ProductIDs: []uuid.UUID{product.ID},
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
		})
		if err != nil {
			t.Fatalf("ListFiltered failed: %v", err)
		}
		if len(variants) != 1 {
			t.Fatalf("Expected 1 variant in price range, got %d", len(variants))
		}
		if variants[0].ID != largeBlue.ID {
			t.Errorf("Expected variant %s, got %s", largeBlue.ID, variants[0].ID)
		}
	})

	t.Run("filters by stock availability", func(t *testing.T) {
		variants, err := variantRepo.ListFiltered(ctx, VariantFilter{
			ProductIDs: []uuid.UUID{product.ID},
			InStock:    true,
		})
		if err != nil {
			t.Fatalf("ListFiltered failed: %v", err)
		}
		if len(variants) != 2 {
			t.Fatalf("Expected 2 in-stock variants, got %d", len(variants))
		}
		for _, v := range variants {
			if v.ID == largeRed.ID {
				t.Errorf("Out-of-stock variant %s should be excluded", largeRed.ID)
			}
		}
	})

	t.Run("empty product list returns no variants", func(t *testing.T) {
		variants, err := variantRepo.ListFiltered(ctx, VariantFilter{
			ProductIDs: []uuid.UUID{},
		})
		if err != nil {
			t.Fatalf("ListFiltered failed: %v", err)
		}
		if len(variants) != 0 {
			t.Fatalf("Expected no variants for empty product list, got %d", len(variants))
		}
	})

	_ = smallRed
}

func TestVariantRepository_SetStockAndLowStock(t *testing.T) {
	ensureCatalogTables(t)
	ctx := context.Background()

	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	variantRepo := NewVariantRepository(testDB)

	category := createTestCategory(t, ctx, categoryRepo)
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "Stock Test Product",
		Description:  "variant stock",
		CategoryID:   category.ID,
		Price:        15.00,
		Discount:     0,
		DiscountType: domain.DiscountPercentage,
		Inventory:    10,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	defer productRepo.Delete(ctx, product.ID)

	variant := seedVariant(t, ctx, variantRepo, product.ID, "M", "green", 15.00, 20)

	updated, err := variantRepo.SetStock(ctx, variant.ID, 3)
	if err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}
	if updated.Inventory != 3 {
		t.Errorf("Expected inventory 3, got %d", updated.Inventory)
	}

	// Threshold is exclusive: a variant at exactly the threshold is not low
	low, err := variantRepo.LowStock(ctx, 3)
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	for _, v := range low {
		if v.ID == variant.ID {
			t.Errorf("Variant at exactly the threshold should not be reported as low stock")
		}
	}

	low, err = variantRepo.LowStock(ctx, 4)
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	found := false
	for _, v := range low {
		if v.ID == variant.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("Variant below the threshold should be reported as low stock")
	}

	if _, err := variantRepo.SetStock(ctx, uuid.New(), 1); err != ErrVariantNotFound {
		t.Errorf("Expected ErrVariantNotFound for unknown variant, got: %v", err)
	}
}
