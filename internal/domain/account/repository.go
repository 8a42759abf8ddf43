package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/learnhub/credits-api/internal/domain/transaction"
)

const queryTimeout = 3 * time.Second

const accountColumns = `student_id, total_credits, lifetime_credits, level, experience, created_at, updated_at`

// Repository persists accounts. Every balance mutation appends its
// transaction in the same SQL transaction.
type Repository interface {
	GetOrCreate(ctx context.Context, studentID uuid.UUID) (*Account, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) (*Account, error)
	Credit(ctx context.Context, entry transaction.Entry) (*Account, *transaction.Transaction, error)
	Debit(ctx context.Context, entry transaction.Entry) (*Account, *transaction.Transaction, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, entry transaction.Entry) (*Account, *transaction.Transaction, error)
}

type repository struct {
	db     *sqlx.DB
	ledger transaction.Repository
}

func NewRepository(db *sqlx.DB, ledger transaction.Repository) Repository {
	return &repository{db: db, ledger: ledger}
}

func (r *repository) GetOrCreate(ctx context.Context, studentID uuid.UUID) (*Account, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := ensureAccount(ctx2, r.db, studentID); err != nil {
		return nil, err
	}
	return r.get(ctx2, studentID)
}

func (r *repository) GetByStudentID(ctx context.Context, studentID uuid.UUID) (*Account, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return r.get(ctx2, studentID)
}

func (r *repository) get(ctx context.Context, studentID uuid.UUID) (*Account, error) {
	var a Account
	err := r.db.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM credit_accounts WHERE student_id = $1`, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: get account: %v", ErrInternal, err)
	}
	return &a, nil
}

func (r *repository) Credit(ctx context.Context, entry transaction.Entry) (*Account, *transaction.Transaction, error) {
	if entry.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	a, err := lockAccount(ctx2, tx, entry.StudentID)
	if err != nil {
		return nil, nil, err
	}

	if err := a.applyCredit(entry.Amount); err != nil {
		return nil, nil, err
	}
	if err := saveAccount(ctx2, tx, a); err != nil {
		return nil, nil, err
	}

	t, err := r.ledger.AppendTx(ctx2, tx, entry)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return a, t, nil
}

func (r *repository) Debit(ctx context.Context, entry transaction.Entry) (*Account, *transaction.Transaction, error) {
	if entry.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	a, t, err := r.DebitTx(ctx2, tx, entry)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return a, t, nil
}

// DebitTx debits within an external transaction using a FOR UPDATE row lock.
// entry.Amount is the positive amount to remove; the ledger records it negated.
// The caller commits or rolls back.
func (r *repository) DebitTx(ctx context.Context, tx *sqlx.Tx, entry transaction.Entry) (*Account, *transaction.Transaction, error) {
	if entry.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	a, err := lockAccount(ctx, tx, entry.StudentID)
	if err != nil {
		return nil, nil, err
	}
	if !a.CanAfford(entry.Amount) {
		return nil, nil, ErrInsufficientCredits
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE credit_accounts
		SET total_credits = total_credits - $2, updated_at = NOW()
		WHERE student_id = $1 AND total_credits >= $2
	`, entry.StudentID, entry.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: update balance: %v", ErrInternal, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return nil, nil, ErrInsufficientCredits
	}
	a.applyDebit(entry.Amount)

	entry.Amount = -entry.Amount
	t, err := r.ledger.AppendTx(ctx, tx, entry)
	if err != nil {
		return nil, nil, err
	}
	return a, t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func ensureAccount(ctx context.Context, db execer, studentID uuid.UUID) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credit_accounts (student_id)
		VALUES ($1)
		ON CONFLICT (student_id) DO NOTHING
	`, studentID)
	if err != nil {
		return fmt.Errorf("%w: ensure account: %v", ErrInternal, err)
	}
	return nil
}

// lockAccount creates the account if needed and locks its row for the rest of tx.
func lockAccount(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (*Account, error) {
	if err := ensureAccount(ctx, tx, studentID); err != nil {
		return nil, err
	}

	var a Account
	err := tx.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM credit_accounts WHERE student_id = $1 FOR UPDATE`, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: lock account row: %v", ErrInternal, err)
	}
	return &a, nil
}

func saveAccount(ctx context.Context, tx *sqlx.Tx, a *Account) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE credit_accounts
		SET total_credits = $2, lifetime_credits = $3, level = $4, experience = $5, updated_at = $6
		WHERE student_id = $1
	`, a.StudentID, a.TotalCredits, a.LifetimeCredits, a.Level, a.Experience, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: update account: %v", ErrInternal, err)
	}
	return nil
}
