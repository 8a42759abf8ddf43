package store

import (
	"context"
	"errors"
	"net/http"
	"strconv"

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

// List handles GET /store/items
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters, details := parseListFilters(r)
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}

	items, err := h.svc.List(r.Context(), filters)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "list_store_items", err)
		return
	}

	response.OK(w, itemListResponse(items))
}

// Available handles GET /store/available
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filters, details := parseListFilters(r)
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}

	items, err := h.svc.AvailableFor(r.Context(), studentID, filters)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "list_available_items", err)
		return
	}

	response.OK(w, availableListResponse(items))
}

// AdminCreate handles POST /admin/store/items
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		errorhandler.LogValidationError(r.Context(), details)
		response.ValidationError(w, details)
		return
	}

	item, err := h.svc.Create(r.Context(), req)
	if err != nil {
		WriteError(r.Context(), w, err, "create_store_item")
		return
	}

	response.Created(w, ItemResponseFromEntity(item))
}

// AdminUpdate handles PATCH /admin/store/items/{id}
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		errorhandler.LogValidationError(r.Context(), details)
		response.ValidationError(w, details)
		return
	}

	item, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		WriteError(r.Context(), w, err, "update_store_item")
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// AdminUploadImage handles POST /admin/store/items/{id}/image (multipart field "file")
func (h *Handler) AdminUploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 6<<20)
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file")
		return
	}
	defer file.Close()

	item, err := h.svc.AttachImage(r.Context(), id, file)
	if err != nil {
		WriteError(r.Context(), w, err, "upload_store_item_image")
		return
	}

	response.OK(w, ItemResponseFromEntity(item))
}

// WriteError maps catalog errors to HTTP responses.
func WriteError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		errorhandler.HandleError(ctx, w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", err)
	case errors.Is(err, ErrItemInactive):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "ITEM_INACTIVE", "Item is no longer available", err)
	case errors.Is(err, ErrSlugTaken):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "SLUG_TAKEN", "An item with this slug already exists", err)
	case errors.Is(err, ErrItemTypeLocked):
		errorhandler.HandleError(ctx, w, http.StatusConflict, "ITEM_TYPE_LOCKED", "Item type cannot change after students own it", err)
	case errors.Is(err, ErrInvalidArtwork):
		errorhandler.HandleError(ctx, w, http.StatusBadRequest, "INVALID_IMAGE", "Image must be a JPEG, PNG or GIF up to 5 MB", err)
	case errors.Is(err, ErrStorageDisabled):
		response.ServiceUnavailable(w, "Artwork storage is not configured")
	default:
		errorhandler.Internal(ctx, w, operation, err)
	}
}

func parseListFilters(r *http.Request) (ListFilters, map[string]string) {
	q := r.URL.Query()
	details := make(map[string]string)
	var filters ListFilters

	if v := q.Get("type"); v != "" {
		t := ItemType(v)
		if !t.IsValid() {
			details["type"] = "Invalid item type"
		} else {
			filters.Type = &t
		}
	}
	if v := q.Get("rarity"); v != "" {
		rr := Rarity(v)
		if !rr.IsValid() {
			details["rarity"] = "Invalid rarity"
		} else {
			filters.Rarity = &rr
		}
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseInt(v, 10, 64)
		if err != nil || p < 0 {
			details["max_price"] = "Must be a non-negative integer"
		} else {
			filters.MaxPrice = &p
		}
	}
	return filters, details
}

// AdminRoutes mounts catalog management under /admin/store/items
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.AdminCreate)
	r.Patch("/{id}", h.AdminUpdate)
	r.Post("/{id}/image", h.AdminUploadImage)
	return r
}
