package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/middleware"
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

// GetMine handles GET /credits/account
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	a, err := h.svc.GetOrCreate(r.Context(), studentID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "get_account", err)
		return
	}

	response.OK(w, AccountResponseFromEntity(a))
}

// AdminGet handles GET /admin/students/{id}/credits
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid student ID")
		return
	}

	a, err := h.svc.Get(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		errorhandler.Internal(r.Context(), w, "admin_get_account", err)
		return
	}

	response.OK(w, AccountResponseFromEntity(a))
}

// AdminAward handles POST /admin/students/{id}/credits/award
func (h *Handler) AdminAward(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.AwardManually)
}

// AdminDeduct handles POST /admin/students/{id}/credits/deduct
func (h *Handler) AdminDeduct(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.DeductManually)
}

type adjustFunc func(ctx context.Context, studentID uuid.UUID, amount int64, description string) (*Account, *transaction.Transaction, error)

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, fn adjustFunc) {
	studentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid student ID")
		return
	}

	var req AdjustRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		errorhandler.LogValidationError(r.Context(), details)
		response.ValidationError(w, details)
		return
	}

	a, t, err := fn(r.Context(), studentID, req.Amount, req.Description)
	if err != nil {
		WriteError(r.Context(), w, err, "admin_adjust_credits")
		return
	}

	response.OK(w, AdjustResponse{
		Account:     AccountResponseFromEntity(a),
		Transaction: transaction.TransactionResponseFromEntity(t),
	})
}

// WriteError maps ledger errors to HTTP responses.
func WriteError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		errorhandler.HandleError(ctx, w, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be between 1 and 1000000000", err)
	case errors.Is(err, ErrInsufficientCredits):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "INSUFFICIENT_CREDITS", "Insufficient credits", err)
	case errors.Is(err, ErrAccountNotFound):
		errorhandler.HandleError(ctx, w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", err)
	default:
		errorhandler.Internal(ctx, w, operation, err)
	}
}

// Routes mounts the student-facing account endpoint
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.GetMine)
	return r
}

// AdminRoutes mounts per-student administrative endpoints under /admin/students/{id}/credits
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.AdminGet)
	r.Post("/award", h.AdminAward)
	r.Post("/deduct", h.AdminDeduct)
	return r
}
