package completion

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/middleware"
)

func newRouter() http.Handler {
	h := NewHandler(NewService(newStubLedger(), 10, 100))
	return h.Routes(middleware.ServiceToken("catalog-token"))
}

func post(router http.Handler, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestModuleEndpoint(t *testing.T) {
	router := newRouter()
	body := `{"student_id":"` + uuid.New().String() + `","module_id":"m-1"}`

	rec := post(router, "/module", "catalog-token", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = post(router, "/module", "catalog-token", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for replay, got %d", rec.Code)
	}
	var resp struct {
		Data GrantResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Duplicate || resp.Data.Account.TotalCredits != 10 {
		t.Fatalf("unexpected replay response %+v", resp.Data)
	}
}

func TestCourseEndpointRejectsBadInput(t *testing.T) {
	router := newRouter()

	rec := post(router, "/course", "catalog-token", `{"student_id":"not-a-uuid","course_id":"c"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	rec = post(router, "/course", "catalog-token",
		`{"student_id":"`+uuid.New().String()+`","course_id":"c","completion_credits":9223372036854775807}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversized reward, got %d", rec.Code)
	}

	rec = post(router, "/course", "catalog-token", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCompletionEndpointsRequireServiceToken(t *testing.T) {
	router := newRouter()
	body := `{"student_id":"` + uuid.New().String() + `","course_id":"c"}`

	rec := post(router, "/course", "wrong", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
