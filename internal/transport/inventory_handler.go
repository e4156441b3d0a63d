package transport

import (
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/policy"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetStockRequest carries an absolute stock value. The pointer
// distinguishes a missing field from an explicit zero.
type SetStockRequest struct {
	Stock *int `json:"stock" validate:"required"`
}

// InventoryHandler handles HTTP requests for stock mutations and low-stock
// queries
type InventoryHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all inventory routes. The whole surface is
// admin-only.
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceInventory, h.logger)).
			Patch("/products/{id}/stock", h.SetProductStock)
		r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceInventory, h.logger)).
			Patch("/variants/{id}/stock", h.SetVariantStock)
		r.With(middleware.RequireAction(policy.ActionRead, policy.ResourceInventory, h.logger)).
			Get("/products/low-stock", h.LowStockProducts)
		r.With(middleware.RequireAction(policy.ActionRead, policy.ResourceInventory, h.logger)).
			Get("/variants/low-stock", h.LowStockVariants)
		r.With(middleware.RequireAction(policy.ActionRead, policy.ResourceInventory, h.logger)).
			Get("/products/{id}/stock", h.GetProductStock)
		r.With(middleware.RequireAction(policy.ActionRead, policy.ResourceInventory, h.logger)).
			Get("/variants/{id}/stock", h.GetVariantStock)
	})
}

// SetProductStock handles PATCH /api/inventory/products/{id}/stock
func (h *InventoryHandler) SetProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	stock, ok := h.decodeStock(w, r)
	if !ok {
		return
	}

	product, err := h.inventory.SetProductStock(r.Context(), id, stock)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SetVariantStock handles PATCH /api/inventory/variants/{id}/stock
func (h *InventoryHandler) SetVariantStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	stock, ok := h.decodeStock(w, r)
	if !ok {
		return
	}

	variant, err := h.inventory.SetVariantStock(r.Context(), id, stock)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

// LowStockProducts handles GET /api/inventory/products/low-stock
func (h *InventoryHandler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold, ok := parseThreshold(w, r)
	if !ok {
		return
	}

	products, err := h.inventory.LowStockProducts(r.Context(), threshold)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// LowStockVariants handles GET /api/inventory/variants/low-stock
func (h *InventoryHandler) LowStockVariants(w http.ResponseWriter, r *http.Request) {
	threshold, ok := parseThreshold(w, r)
	if !ok {
		return
	}

	variants, err := h.inventory.LowStockVariants(r.Context(), threshold)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variants)
}

// GetProductStock handles GET /api/inventory/products/{id}/stock
func (h *InventoryHandler) GetProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	record, err := h.inventory.ProductStockRecord(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, record)
}

// GetVariantStock handles GET /api/inventory/variants/{id}/stock
func (h *InventoryHandler) GetVariantStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	record, err := h.inventory.VariantStockRecord(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, record)
}

func (h *InventoryHandler) decodeStock(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req SetStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil || req.Stock == nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid stock value, must be a non-negative number")
		return 0, false
	}
	return *req.Stock, true
}
