package account

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

func adminRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Mount("/admin/students/{id}/credits", h.AdminRoutes())
	return r
}

func TestGetMineReturnsLazyAccount(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	studentID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/credits/account", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, studentID))
	w := httptest.NewRecorder()
	h.GetMine(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data AccountResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Level != 1 || body.Data.NextLevelExperience != 100 {
		t.Fatalf("unexpected account: %+v", body.Data)
	}
}

func TestGetMineRequiresAuth(t *testing.T) {
	svc, _ := newTestService()
	w := httptest.NewRecorder()
	NewHandler(svc).GetMine(w, httptest.NewRequest(http.MethodGet, "/credits/account", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminAwardAndDeduct(t *testing.T) {
	svc, _ := newTestService()
	router := adminRouter(NewHandler(svc))
	studentID := uuid.New()

	post := func(path string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/students/"+studentID.String()+"/credits"+path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := post("/award", `{"amount":300,"description":"contest winner"}`); w.Code != http.StatusOK {
		t.Fatalf("award: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w := post("/deduct", `{"amount":500}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("deduct: expected 409, got %d", w.Code)
	}
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INSUFFICIENT_CREDITS" {
		t.Fatalf("expected INSUFFICIENT_CREDITS, got %+v", resp.Error)
	}

	if w := post("/award", `{"amount":0}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero award: expected 422, got %d", w.Code)
	}
	if w := post("/award", `{"amount":9223372036854775807}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("oversized award: expected 422, got %d", w.Code)
	}

	a, err := svc.Get(context.Background(), studentID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.TotalCredits != 300 || a.Level != 2 {
		t.Fatalf("unexpected account: %+v", a)
	}
}

func TestAdminGetUnknownStudent(t *testing.T) {
	svc, _ := newTestService()
	req := httptest.NewRequest(http.MethodGet, "/admin/students/"+uuid.NewString()+"/credits", nil)
	w := httptest.NewRecorder()
	adminRouter(NewHandler(svc)).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
