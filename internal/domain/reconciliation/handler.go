package reconciliation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/credits-api/internal/pkg/errorhandler"
	"github.com/learnhub/credits-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Check handles GET /admin/reconciliation
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Check(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, "reconciliation", err)
		return
	}
	response.OK(w, report)
}

func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	return r
}
