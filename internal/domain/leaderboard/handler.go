package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/middleware"
	"github.com/learnhub/credits-api/internal/pkg/errorhandler"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Top handles GET /leaderboard
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = clampLimit(limit)

	entries, err := h.svc.Top(r.Context(), limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "leaderboard_top", err)
		return
	}

	response.WithMeta(w, entries, response.Meta{Total: len(entries), Limit: limit})
}

// Rank handles GET /leaderboard/rank
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	standing, err := h.svc.RankOf(r.Context(), studentID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "leaderboard_rank", err)
		return
	}

	response.OK(w, standing)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.Top)
	r.Get("/rank", h.Rank)
	return r
}
