package inventory

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

// Inventory handles GET /inventory
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	items, err := h.svc.Inventory(r.Context(), studentID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "get_inventory", err)
		return
	}

	response.OK(w, inventoryResponse(items))
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	p, err := h.svc.GetProfile(r.Context(), studentID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "get_profile", err)
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// UpdateProfile handles PATCH /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		errorhandler.LogValidationError(r.Context(), details)
		response.ValidationError(w, details)
		return
	}

	p, err := h.svc.UpdateProfile(r.Context(), studentID, ProfileUpdate{
		Bio:          req.Bio,
		ProfileColor: req.ProfileColor,
		CustomTitle:  req.CustomTitle,
	})
	if err != nil {
		WriteError(r.Context(), w, err, "update_profile")
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// Equip handles POST /profile/equip/{itemId}
func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	h.slotChange(w, r, h.svc.Equip, "equip_item")
}

// Unequip handles POST /profile/unequip/{itemId}
func (h *Handler) Unequip(w http.ResponseWriter, r *http.Request) {
	h.slotChange(w, r, h.svc.Unequip, "unequip_item")
}

func (h *Handler) slotChange(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, studentID, itemID uuid.UUID) (*Profile, error), operation string) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	p, err := fn(r.Context(), studentID, itemID)
	if err != nil {
		WriteError(r.Context(), w, err, operation)
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// WriteError maps inventory errors to HTTP responses.
func WriteError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, ErrNotOwned):
		errorhandler.HandleError(ctx, w, http.StatusForbidden, "NOT_OWNED", "You do not own this item", err)
	case errors.Is(err, ErrBadgeSlotFull):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "BADGE_SLOT_FULL", "All 5 badge slots are in use", err)
	case errors.Is(err, ErrAlreadyOwned):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "ALREADY_OWNED", "You already own this item", err)
	case errors.Is(err, ErrNotEquipable):
		errorhandler.HandleError(ctx, w, http.StatusBadRequest, "NOT_EQUIPABLE", "This item cannot be equipped", err)
	default:
		errorhandler.Internal(ctx, w, operation, err)
	}
}

// InventoryRoutes mounts GET /inventory
func (h *Handler) InventoryRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.Inventory)
	return r
}

// ProfileRoutes mounts the equip and customization endpoints under /profile
func (h *Handler) ProfileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.GetProfile)
	r.Patch("/", h.UpdateProfile)
	r.Post("/equip/{itemId}", h.Equip)
	r.Post("/unequip/{itemId}", h.Unequip)
	return r
}
