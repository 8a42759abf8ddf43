package transaction

import (
	"time"
)

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func TransactionResponseFromEntity(t *Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID.String(),
		StudentID: t.StudentID.String(),
		Amount:    t.Amount,
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt,
	}
	if t.ReferenceID.Valid {
		resp.ReferenceID = &t.ReferenceID.String
	}
	if t.Description.Valid {
		resp.Description = &t.Description.String
	}
	return resp
}

func TransactionListResponse(items []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(items))
	for i := range items {
		out[i] = TransactionResponseFromEntity(&items[i])
	}
	return out
}
