package purchase

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
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

// PurchaseResponse is returned after a committed purchase
type PurchaseResponse struct {
	Item        store.ItemResponse               `json:"item"`
	Account     account.AccountResponse          `json:"account"`
	Transaction *transaction.TransactionResponse `json:"transaction,omitempty"`
}

// Purchase handles POST /store/items/{id}/purchase
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())
	if studentID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	result, err := h.svc.Purchase(r.Context(), studentID, itemID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp := PurchaseResponse{
		Item:    store.ItemResponseFromEntity(result.Item),
		Account: account.AccountResponseFromEntity(result.Account),
	}
	if result.Transaction != nil {
		t := transaction.TransactionResponseFromEntity(result.Transaction)
		resp.Transaction = &t
	}
	response.OK(w, resp)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var levelErr *LevelTooLowError
	switch {
	case errors.As(err, &levelErr):
		errorhandler.HandleError(ctx, w, http.StatusForbidden, "LEVEL_TOO_LOW", levelErr.Error(), err)
	case errors.Is(err, store.ErrItemNotFound), errors.Is(err, store.ErrItemInactive):
		store.WriteError(ctx, w, err, "purchase")
	case errors.Is(err, inventory.ErrAlreadyOwned):
		inventory.WriteError(ctx, w, err, "purchase")
	default:
		account.WriteError(ctx, w, err, "purchase")
	}
}
