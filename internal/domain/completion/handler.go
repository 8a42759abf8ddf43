package completion

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/pkg/errorhandler"
	"github.com/learnhub/credits-api/internal/pkg/response"
	"github.com/learnhub/credits-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Module handles POST /internal/v1/completions/module
func (h *Handler) Module(w http.ResponseWriter, r *http.Request) {
	var req ModuleCompletedRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.svc.ModuleCompleted(r.Context(), uuid.MustParse(req.StudentID), req.ModuleID)
	if err != nil {
		account.WriteError(r.Context(), w, err, "module_completed")
		return
	}
	writeGrant(w, g)
}

// Course handles POST /internal/v1/completions/course
func (h *Handler) Course(w http.ResponseWriter, r *http.Request) {
	var req CourseCompletedRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.svc.CourseCompleted(r.Context(), uuid.MustParse(req.StudentID), req.CourseID, req.CompletionCredits)
	if err != nil {
		account.WriteError(r.Context(), w, err, "course_completed")
		return
	}
	writeGrant(w, g)
}

func decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := response.DecodeJSON(r.Body, req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return false
	}
	if details := validator.Validate(req); details != nil {
		errorhandler.LogValidationError(r.Context(), details)
		response.ValidationError(w, details)
		return false
	}
	return true
}

func writeGrant(w http.ResponseWriter, g *Grant) {
	if g.Duplicate {
		response.OK(w, GrantResponseFromEntity(g))
		return
	}
	response.Created(w, GrantResponseFromEntity(g))
}

// Routes mounts the catalog-source endpoints behind the service-token middleware
func (h *Handler) Routes(serviceAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(serviceAuth)
	r.Post("/module", h.Module)
	r.Post("/course", h.Course)
	return r
}
