package transaction

import (
	"net/http"
	"strconv"
	"time"

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

// History handles GET /credits/transactions
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = ClampLimit(limit)

	items, err := h.svc.History(r.Context(), studentID, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "transaction_history", err)
		return
	}

	response.WithMeta(w, TransactionListResponse(items), response.Meta{Total: len(items), Limit: limit})
}

// Search handles GET /admin/transactions
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	filters, details := parseSearchFilters(r)
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}

	items, err := h.svc.Search(r.Context(), filters)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "transaction_search", err)
		return
	}

	response.WithMeta(w, TransactionListResponse(items), response.Meta{Total: len(items), Limit: filters.Limit})
}

func parseSearchFilters(r *http.Request) (SearchFilters, map[string]string) {
	q := r.URL.Query()
	details := make(map[string]string)
	var filters SearchFilters

	if v := q.Get("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			details["student_id"] = "Invalid UUID"
		} else {
			filters.StudentID = &id
		}
	}
	if v := q.Get("type"); v != "" {
		t := Type(v)
		if !t.IsValid() {
			details["type"] = "Unknown transaction type"
		} else {
			filters.Type = &t
		}
	}
	if v := q.Get("reference_id"); v != "" {
		filters.ReferenceID = &v
	}
	for _, key := range []string{"from", "to"} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			details[key] = "Must be an RFC3339 timestamp"
			continue
		}
		if key == "from" {
			filters.From = &ts
		} else {
			filters.To = &ts
		}
	}

	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Limit = ClampLimit(filters.Limit)
	filters.Offset, _ = strconv.Atoi(q.Get("offset"))

	return filters, details
}

// Routes mounts the student-facing history endpoint
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.History)
	return r
}
