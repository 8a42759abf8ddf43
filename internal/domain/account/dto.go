package account

import (
	"time"

	"github.com/learnhub/credits-api/internal/domain/transaction"
)

// AccountResponse represents an account in API responses
type AccountResponse struct {
	StudentID           string    `json:"student_id"`
	TotalCredits        int64     `json:"total_credits"`
	LifetimeCredits     int64     `json:"lifetime_credits"`
	Level               int       `json:"level"`
	Experience          int64     `json:"experience"`
	NextLevelExperience int64     `json:"next_level_experience"`
	LevelProgress       float64   `json:"level_progress"`
	CreatedAt           time.Time `json:"created_at"`
}

func AccountResponseFromEntity(a *Account) AccountResponse {
	return AccountResponse{
		StudentID:           a.StudentID.String(),
		TotalCredits:        a.TotalCredits,
		LifetimeCredits:     a.LifetimeCredits,
		Level:               a.Level,
		Experience:          a.Experience,
		NextLevelExperience: NextLevelExperience(a.Level),
		LevelProgress:       Progress(a),
		CreatedAt:           a.CreatedAt,
	}
}

// AdjustRequest is the body of the admin award and deduct endpoints
type AdjustRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0,max=1000000000"`
	Description string `json:"description" validate:"max=255"`
}

// AdjustResponse is returned after a manual balance change
type AdjustResponse struct {
	Account     AccountResponse                 `json:"account"`
	Transaction transaction.TransactionResponse `json:"transaction"`
}
