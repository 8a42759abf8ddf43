package account

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxAmount bounds a single credit or debit.
const MaxAmount int64 = 1_000_000_000

// Account is a student's balance and progression record.
// TotalCredits never exceeds LifetimeCredits; Level always equals LevelFor(Experience).
type Account struct {
	StudentID       uuid.UUID `db:"student_id"`
	TotalCredits    int64     `db:"total_credits"`
	LifetimeCredits int64     `db:"lifetime_credits"`
	Level           int       `db:"level"`
	Experience      int64     `db:"experience"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// New returns the zero-balance account a student starts with.
func New(studentID uuid.UUID) *Account {
	now := time.Now()
	return &Account{
		StudentID: studentID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanAfford checks if the spendable balance covers amount
func (a *Account) CanAfford(amount int64) bool {
	return a.TotalCredits >= amount
}

// applyCredit adds an earned amount and recomputes the level. Experience
// equals lifetime credits, so guarding lifetime guards all three counters.
func (a *Account) applyCredit(amount int64) error {
	if amount <= 0 || a.LifetimeCredits > math.MaxInt64-amount {
		return ErrInvalidAmount
	}
	a.TotalCredits += amount
	a.LifetimeCredits += amount
	a.Experience += amount
	a.Level = LevelFor(a.Experience)
	a.UpdatedAt = time.Now()
	return nil
}

// applyDebit removes a spent amount. Lifetime, experience and level are untouched.
func (a *Account) applyDebit(amount int64) {
	a.TotalCredits -= amount
	a.UpdatedAt = time.Now()
}
