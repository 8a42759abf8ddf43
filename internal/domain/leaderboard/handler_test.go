package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

func TestHandlerRank(t *testing.T) {
	repo := &memRepo{}
	me := repo.add(10, 1, time.Now())
	h := NewHandler(NewService(repo, nil))

	req := httptest.NewRequest(http.MethodGet, "/leaderboard/rank", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, me))
	rec := httptest.NewRecorder()
	h.Rank(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data Standing `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Rank != 1 || !body.Data.Ranked {
		t.Fatalf("unexpected standing %+v", body.Data)
	}
}

func TestHandlerRankRequiresStudent(t *testing.T) {
	h := NewHandler(NewService(&memRepo{}, nil))
	rec := httptest.NewRecorder()
	h.Rank(rec, httptest.NewRequest(http.MethodGet, "/leaderboard/rank", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandlerTopMeta(t *testing.T) {
	repo := &memRepo{}
	repo.add(10, 1, time.Now())
	repo.add(20, 1, time.Now())
	h := NewHandler(NewService(repo, nil))

	rec := httptest.NewRecorder()
	h.Top(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=1", nil))

	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Meta == nil || body.Meta.Limit != 1 || body.Meta.Total != 1 {
		t.Fatalf("unexpected meta %+v", body.Meta)
	}
}
