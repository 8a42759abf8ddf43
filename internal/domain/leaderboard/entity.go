package leaderboard

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Entry is one ranked account. Order: lifetime credits desc, level desc,
// account creation asc, student id asc.
type Entry struct {
	Rank            int       `db:"rank" json:"rank"`
	StudentID       uuid.UUID `db:"student_id" json:"student_id"`
	LifetimeCredits int64     `db:"lifetime_credits" json:"lifetime_credits"`
	Level           int       `db:"level" json:"level"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
}

// Standing is a student's position. Ranked is false for students without an account.
type Standing struct {
	StudentID uuid.UUID `json:"student_id"`
	Rank      int       `json:"rank,omitempty"`
	Ranked    bool      `json:"ranked"`
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
