package transport

import (
	"errors"
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/pricing"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and repository sentinel errors onto the
// JSON error envelope. Unrecognized errors are logged and reported as a
// generic 500 so internal detail never reaches the caller.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStockValue),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, pricing.ErrInvalidDiscount),
		errors.Is(err, pricing.ErrInvalidMode),
		errors.Is(err, repository.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrVariantNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrStockRecordNotFound),
		errors.Is(err, service.ErrNoProductsFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, repository.ErrCategoryAlreadyExists),
		errors.Is(err, repository.ErrCategoryInUse),
		errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())

	default:
		logger.Error("Unhandled service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
