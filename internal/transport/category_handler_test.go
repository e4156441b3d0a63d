package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newCategoryRouter(catalog *stubCatalogService, role string) chi.Router {
	handler := NewCategoryHandler(catalog, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router, fakeAuth(uuid.New().String(), role))
	return router
}

func TestDeleteCategoryEndpoint_ReferencedCategoryConflicts(t *testing.T) {
	catalog := &stubCatalogService{
		deleteCategory: func(ctx context.Context, id uuid.UUID) error {
			return repository.ErrCategoryInUse
		},
	}
	router := newCategoryRouter(catalog, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete,
		"/api/categories/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for a category still referenced by products, got %d: %s",
			w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("Expected an error field in the response, got: %v", body)
	}
}

func TestDeleteCategoryEndpoint_UnknownCategory(t *testing.T) {
	catalog := &stubCatalogService{
		deleteCategory: func(ctx context.Context, id uuid.UUID) error {
			return repository.ErrCategoryNotFound
		},
	}
	router := newCategoryRouter(catalog, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete,
		"/api/categories/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown category, got %d", w.Code)
	}
}

func TestDeleteCategoryEndpoint_DeniedForNonAdmin(t *testing.T) {
	catalog := &stubCatalogService{
		deleteCategory: func(ctx context.Context, id uuid.UUID) error {
			t.Error("Service should not be called when the policy denies")
			return nil
		},
	}
	router := newCategoryRouter(catalog, domain.RoleUser)

	req := httptest.NewRequest(http.MethodDelete,
		"/api/categories/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-admin, got %d", w.Code)
	}
}

func TestCreateCategoryEndpoint_DuplicateNameConflicts(t *testing.T) {
	catalog := &stubCatalogService{
		createCategory: func(ctx context.Context, name, description string) (*domain.Category, error) {
			return nil, repository.ErrCategoryAlreadyExists
		},
	}
	router := newCategoryRouter(catalog, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/categories",
		strings.NewReader(`{"name": "Tops"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a duplicate category name, got %d", w.Code)
	}
}
