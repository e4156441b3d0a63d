package transport

import (
	"context"
	"net/http"
	"strconv"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/policy"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. Category is
// a category name.
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Discount     float64 `json:"discount" validate:"gte=0"`
	DiscountType string  `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	Inventory    int     `json:"inventory" validate:"gte=0"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Price        *float64 `json:"price"`
	Discount     *float64 `json:"discount"`
	DiscountType *string  `json:"discount_type"`
	Inventory    *int     `json:"inventory"`
}

// AdjustInventoryRequest carries a delta stock mutation
type AdjustInventoryRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// ListResponse wraps a product listing
type ListResponse struct {
	Status  string                `json:"status"`
	Results int                   `json:"results"`
	Data    []service.ProductView `json:"data"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	catalog   service.CatalogService
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, inventory service.InventoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:   catalog,
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all product routes. Reads are open; mutations
// and low-stock reads are gated by the policy.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.With(middleware.RequireAction(policy.ActionRead, policy.ResourceInventory, h.logger)).
				Get("/low-stock", h.LowStock)
			r.With(middleware.RequireAction(policy.ActionCreate, policy.ResourceProduct, h.logger)).
				Post("/", h.Create)
			r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceProduct, h.logger)).
				Patch("/{id}", h.Update)
			r.With(middleware.RequireAction(policy.ActionDelete, policy.ResourceProduct, h.logger)).
				Delete("/{id}", h.Delete)
			r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceInventory, h.logger)).
				Patch("/{id}/increase-inventory", h.IncreaseInventory)
			r.With(middleware.RequireAction(policy.ActionUpdate, policy.ResourceInventory, h.logger)).
				Patch("/{id}/decrease-inventory", h.DecreaseInventory)
		})

		r.Get("/{id}", h.Get)
	})
}

// List handles GET /api/products with filters and sorting
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := service.ProductListFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		InStock:  q.Get("inStock") == "true",
		Size:     q.Get("size"),
		Color:    q.Get("color"),
	}

	if v := q.Get("minPrice"); v != "" {
		minPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		filters.MinPrice = &minPrice
	}

	if v := q.Get("maxPrice"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		filters.MaxPrice = &maxPrice
	}

	views, err := h.catalog.ListProducts(r.Context(), filters)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListResponse{
		Status:  "success",
		Results: len(views),
		Data:    views,
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), service.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Discount:     req.Discount,
		DiscountType: domain.DiscountType(req.DiscountType),
		Inventory:    req.Inventory,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// Update handles PATCH /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var discountType *domain.DiscountType
	if req.DiscountType != nil {
		dt := domain.DiscountType(*req.DiscountType)
		discountType = &dt
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Discount:     req.Discount,
		DiscountType: discountType,
		Inventory:    req.Inventory,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated",
		"product": product,
	})
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// IncreaseInventory handles PATCH /api/products/{id}/increase-inventory
func (h *ProductHandler) IncreaseInventory(w http.ResponseWriter, r *http.Request) {
	h.adjustInventory(w, r, h.inventory.IncreaseProductStock, "Inventory increased")
}

// DecreaseInventory handles PATCH /api/products/{id}/decrease-inventory
func (h *ProductHandler) DecreaseInventory(w http.ResponseWriter, r *http.Request) {
	h.adjustInventory(w, r, h.inventory.DecreaseProductStock, "Inventory decreased")
}

func (h *ProductHandler) adjustInventory(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(ctx context.Context, id uuid.UUID, amount int) (*domain.Product, error),
	message string,
) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AdjustInventoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := adjust(r.Context(), id, req.Amount)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"product": product,
	})
}

// LowStock handles GET /api/products/low-stock
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold, ok := parseThreshold(w, r)
	if !ok {
		return
	}

	products, err := h.inventory.LowStockProducts(r.Context(), threshold)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"count":  len(products),
		"data":   products,
	})
}

// parseID parses the {id} route parameter as a UUID
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseThreshold parses the threshold query parameter, defaulting to 5.
// Negative and non-numeric values are rejected.
func parseThreshold(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return service.DefaultLowStockThreshold, true
	}

	threshold, err := strconv.Atoi(raw)
	if err != nil || threshold < 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid threshold value")
		return 0, false
	}

	return threshold, true
}
