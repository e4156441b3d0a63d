package transport

import (
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/policy"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdatePricingRequest carries new pricing for a product
type UpdatePricingRequest struct {
	Price        float64 `json:"price" validate:"gte=0"`
	Discount     float64 `json:"discount" validate:"gte=0"`
	DiscountType string  `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
}

// PricingHandler handles HTTP requests for product pricing
type PricingHandler struct {
	pricing service.PricingService
	logger  *zap.Logger
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricing service.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricing: pricing,
		logger:  logger,
	}
}

// RegisterRoutes registers pricing routes. Reads are open; the update is
// admin-only.
func (h *PricingHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/pricing", func(r chi.Router) {
		r.Get("/product/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourcePricing, h.logger)).
				Patch("/product/{id}", h.Update)
		})
	})
}

// Update handles PATCH /api/pricing/product/{id}
func (h *PricingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdatePricingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.pricing.UpdateProductPricing(r.Context(), id, req.Price, req.Discount, domain.DiscountType(req.DiscountType))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Get handles GET /api/pricing/product/{id}
func (h *PricingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.pricing.GetProductPricing(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}
