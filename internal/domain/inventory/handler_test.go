package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

func profileRouter(h *Handler, studentID uuid.UUID) http.Handler {
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if studentID != uuid.Nil {
				ctx = contextWithStudent(r, studentID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	r := chi.NewRouter()
	r.Mount("/profile", h.ProfileRoutes(auth))
	r.Mount("/inventory", h.InventoryRoutes(auth))
	return r
}

func contextWithStudent(r *http.Request, studentID uuid.UUID) context.Context {
	return context.WithValue(r.Context(), middleware.UserIDKey, studentID)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

func TestEquipHandlerNotOwned(t *testing.T) {
	banner := item(store.ItemTypeBanner, "Sunrise")
	h := NewHandler(NewService(newMemRepo(banner), keylock.New()))

	w := httptest.NewRecorder()
	profileRouter(h, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profile/equip/"+banner.ID.String(), nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if code := errorCode(t, w.Body.Bytes()); code != "NOT_OWNED" {
		t.Fatalf("expected NOT_OWNED, got %s", code)
	}
}

func TestEquipHandlerAndInventory(t *testing.T) {
	theme := item(store.ItemTypeTheme, "Night")
	repo := newMemRepo(theme)
	studentID := uuid.New()
	repo.grant(studentID, theme)
	router := profileRouter(NewHandler(NewService(repo, keylock.New())), studentID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profile/equip/"+theme.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	var body struct {
		Data []OwnedItemResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || !body.Data[0].IsEquipped {
		t.Fatalf("unexpected inventory: %+v", body.Data)
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	router := profileRouter(NewHandler(NewService(newMemRepo(), keylock.New())), uuid.New())

	long := strings.Repeat("a", 300)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(`{"bio":"`+long+`","profile_color":"#ff8800"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Data ProfileResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Bio) != MaxBioLength || body.Data.ProfileColor != "#ff8800" {
		t.Fatalf("unexpected profile: %+v", body.Data)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewBufferString(`{"profile_color":"orange"}`)))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad color, got %d", w.Code)
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	router := profileRouter(NewHandler(NewService(newMemRepo(), keylock.New())), uuid.Nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

