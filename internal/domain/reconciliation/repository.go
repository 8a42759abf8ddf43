package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// A full scan touches every account, so it gets more time than a request query.
const checkTimeout = 30 * time.Second

var ErrInternal = errors.New("internal error")

type Repository interface {
	CountAccounts(ctx context.Context) (int, error)
	Mismatches(ctx context.Context) ([]Mismatch, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountAccounts(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx2, &n, `SELECT COUNT(*) FROM credit_accounts`); err != nil {
		return 0, fmt.Errorf("%w: count accounts: %v", ErrInternal, err)
	}
	return n, nil
}

func (r *repository) Mismatches(ctx context.Context) ([]Mismatch, error) {
	ctx2, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	mismatches := []Mismatch{}
	err := r.db.SelectContext(ctx2, &mismatches, `
		SELECT a.student_id, a.total_credits, a.lifetime_credits,
		       COALESCE(l.total, 0) AS ledger_total,
		       COALESCE(l.lifetime, 0) AS ledger_lifetime
		FROM credit_accounts a
		LEFT JOIN (
			SELECT student_id,
			       SUM(amount) AS total,
			       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS lifetime
			FROM credit_transactions
			GROUP BY student_id
		) l ON l.student_id = a.student_id
		WHERE a.total_credits <> COALESCE(l.total, 0)
		   OR a.lifetime_credits <> COALESCE(l.lifetime, 0)
		ORDER BY a.student_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: reconcile accounts: %v", ErrInternal, err)
	}
	return mismatches, nil
}
