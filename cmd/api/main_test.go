package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/config"
	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/completion"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/leaderboard"
	"github.com/learnhub/credits-api/internal/domain/purchase"
	"github.com/learnhub/credits-api/internal/domain/reconciliation"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/jwt"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
)

// testRouter wires handlers over nil repositories; only routing and
// middleware are exercised.
func testRouter(t *testing.T, jwtService *jwt.Service) chi.Router {
	t.Helper()
	locks := keylock.New()
	accountService := account.NewService(nil, locks)
	inventoryService := inventory.NewService(nil, locks)
	storeService := store.NewService(nil, accountService, inventoryService, nil)

	h := handlers{
		account:        account.NewHandler(accountService),
		transaction:    transaction.NewHandler(transaction.NewService(nil)),
		store:          store.NewHandler(storeService),
		purchase:       purchase.NewHandler(purchase.NewService(storeService, accountService, nil, nil, locks)),
		inventory:      inventory.NewHandler(inventoryService),
		leaderboard:    leaderboard.NewHandler(leaderboard.NewService(nil, nil)),
		completion:     completion.NewHandler(completion.NewService(accountService, 0, 0)),
		reconciliation: reconciliation.NewHandler(reconciliation.NewService(nil)),
	}

	cfg := &config.Config{MetricsEnabled: true, CatalogServiceToken: "catalog"}
	health := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	return newRouter(cfg, h, middleware.Auth(jwtService), health)
}

func TestRouterRegistersEndpoints(t *testing.T) {
	router := testRouter(t, jwt.NewService("secret", time.Minute))

	registered := map[string]bool{}
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(strings.ReplaceAll(route, "/*", ""), "/")] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := []string{
		"GET /health",
		"GET /metrics",
		"GET /api/v1/credits/account",
		"GET /api/v1/credits/transactions",
		"GET /api/v1/store/items",
		"GET /api/v1/store/available",
		"POST /api/v1/store/items/{id}/purchase",
		"GET /api/v1/inventory",
		"GET /api/v1/profile",
		"PATCH /api/v1/profile",
		"POST /api/v1/profile/equip/{itemId}",
		"POST /api/v1/profile/unequip/{itemId}",
		"GET /api/v1/leaderboard",
		"GET /api/v1/leaderboard/rank",
		"POST /internal/v1/completions/module",
		"POST /internal/v1/completions/course",
		"GET /api/admin/students/{id}/credits",
		"POST /api/admin/students/{id}/credits/award",
		"POST /api/admin/students/{id}/credits/deduct",
		"GET /api/admin/transactions",
		"POST /api/admin/store/items",
		"PATCH /api/admin/store/items/{id}",
		"POST /api/admin/store/items/{id}/image",
		"GET /api/admin/reconciliation",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)
	router := testRouter(t, jwtService)

	token, err := jwtService.GenerateAccessToken(uuid.New(), "student", false)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reconciliation", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestStudentRoutesRequireToken(t *testing.T) {
	router := testRouter(t, jwt.NewService("secret", time.Minute))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/credits/account", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
