package transport

import (
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/policy"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateVariantRequest represents the variant creation payload
type CreateVariantRequest struct {
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required"`
	Size         string  `json:"size"`
	Color        string  `json:"color"`
	Material     string  `json:"material"`
	Price        float64 `json:"price" validate:"gte=0"`
	Discount     float64 `json:"discount" validate:"gte=0"`
	DiscountType string  `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	Inventory    int     `json:"inventory" validate:"gte=0"`
}

// UpdateVariantRequest represents a partial variant update
type UpdateVariantRequest struct {
	Name         *string  `json:"name"`
	Size         *string  `json:"size"`
	Color        *string  `json:"color"`
	Material     *string  `json:"material"`
	Price        *float64 `json:"price"`
	Discount     *float64 `json:"discount"`
	DiscountType *string  `json:"discount_type"`
	Inventory    *int     `json:"inventory"`
}

// VariantHandler handles HTTP requests for variant operations
type VariantHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(catalog service.CatalogService, logger *zap.Logger) *VariantHandler {
	return &VariantHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all variant routes. The {productId} read lists a
// product's variants, mirroring the public API surface.
func (h *VariantHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/variants", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{productId}", h.ListByProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RequireAction(policy.ActionCreate, policy.ResourceVariant, h.logger)).
				Post("/", h.Create)
			r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceVariant, h.logger)).
				Patch("/{id}", h.Update)
			r.With(middleware.RequireAction(policy.ActionDelete, policy.ResourceVariant, h.logger)).
				Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/variants
func (h *VariantHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalog.ListVariants(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// ListByProduct handles GET /api/variants/{productId}
func (h *VariantHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	views, err := h.catalog.VariantsByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// Create handles POST /api/variants
func (h *VariantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVariantRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	variant, err := h.catalog.CreateVariant(r.Context(), &domain.Variant{
		ProductID:    productID,
		Name:         req.Name,
		Size:         req.Size,
		Color:        req.Color,
		Material:     req.Material,
		Price:        req.Price,
		Discount:     req.Discount,
		DiscountType: domain.DiscountType(req.DiscountType),
		Inventory:    req.Inventory,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Variant created",
		zap.String("variant_id", variant.ID.String()),
		zap.String("product_id", variant.ProductID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, variant)
}

// Update handles PATCH /api/variants/{id}
func (h *VariantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Partial update: start from the stored variant
	variant, err := h.catalog.GetVariant(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if req.Name != nil {
		variant.Name = *req.Name
	}
	if req.Size != nil {
		variant.Size = *req.Size
	}
	if req.Color != nil {
		variant.Color = *req.Color
	}
	if req.Material != nil {
		variant.Material = *req.Material
	}
	if req.Price != nil {
		variant.Price = *req.Price
	}
	if req.Discount != nil {
		variant.Discount = *req.Discount
	}
	if req.DiscountType != nil {
		variant.DiscountType = domain.DiscountType(*req.DiscountType)
	}
	if req.Inventory != nil {
		variant.Inventory = *req.Inventory
	}

	updated, err := h.catalog.UpdateVariant(r.Context(), variant)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/variants/{id}
func (h *VariantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteVariant(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Variant deleted successfully"})
}
