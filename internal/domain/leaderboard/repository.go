package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

var ErrInternal = errors.New("internal error")

type Repository interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
	// RankOf returns 1 + the number of accounts ahead of the student.
	RankOf(ctx context.Context, studentID uuid.UUID) (int, bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Top(ctx context.Context, limit int) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entries := make([]Entry, 0, limit)
	err := r.db.SelectContext(ctx2, &entries, `
		SELECT ROW_NUMBER() OVER (ORDER BY lifetime_credits DESC, level DESC, created_at ASC, student_id ASC) AS rank,
		       student_id, lifetime_credits, level, created_at
		FROM credit_accounts
		ORDER BY lifetime_credits DESC, level DESC, created_at ASC, student_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard top: %v", ErrInternal, err)
	}
	return entries, nil
}

func (r *repository) RankOf(ctx context.Context, studentID uuid.UUID) (int, bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rank int
	err := r.db.GetContext(ctx2, &rank, `
		SELECT 1 + COUNT(o.student_id)
		FROM credit_accounts me
		LEFT JOIN credit_accounts o ON
		     o.lifetime_credits > me.lifetime_credits
		  OR (o.lifetime_credits = me.lifetime_credits AND o.level > me.level)
		  OR (o.lifetime_credits = me.lifetime_credits AND o.level = me.level AND o.created_at < me.created_at)
		  OR (o.lifetime_credits = me.lifetime_credits AND o.level = me.level AND o.created_at = me.created_at AND o.student_id < me.student_id)
		WHERE me.student_id = $1
		GROUP BY me.student_id
	`, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: leaderboard rank: %v", ErrInternal, err)
	}
	return rank, true, nil
}
