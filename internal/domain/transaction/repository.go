package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const completionConstraint = "uq_credit_transactions_completion"

// Repository is the write-once store of balance changes.
// Entries are never updated or deleted.
type Repository interface {
	AppendTx(ctx context.Context, tx *sqlx.Tx, entry Entry) (*Transaction, error)
	History(ctx context.Context, studentID uuid.UUID, limit int) ([]Transaction, error)
	Search(ctx context.Context, filters SearchFilters) ([]Transaction, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// AppendTx inserts the transaction inside the caller's ledger transaction.
// The caller commits or rolls back.
func (r *repository) AppendTx(ctx context.Context, tx *sqlx.Tx, entry Entry) (*Transaction, error) {
	var t Transaction
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO credit_transactions (student_id, amount, tx_type, reference_id, description)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, seq, student_id, amount, tx_type, reference_id, description, created_at
	`, entry.StudentID, entry.Amount, entry.Type, entry.ReferenceID, entry.Description).StructScan(&t)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == completionConstraint {
			return nil, ErrDuplicateCompletion
		}
		return nil, fmt.Errorf("%w: insert transaction: %v", ErrInternal, err)
	}
	return &t, nil
}

func (r *repository) History(ctx context.Context, studentID uuid.UUID, limit int) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	transactions := make([]Transaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT id, seq, student_id, amount, tx_type, reference_id, description, created_at
		FROM credit_transactions
		WHERE student_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`, studentID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", ErrInternal, err)
	}
	return transactions, nil
}

func (r *repository) Search(ctx context.Context, filters SearchFilters) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args := buildSearchQuery(filters)

	transactions := make([]Transaction, 0)
	if err := r.db.SelectContext(ctx2, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("%w: search transactions: %v", ErrInternal, err)
	}
	return transactions, nil
}

func buildSearchQuery(filters SearchFilters) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, seq, student_id, amount, tx_type, reference_id, description, created_at
		FROM credit_transactions
		WHERE 1=1`)

	args := make([]interface{}, 0, 7)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s $%d", clause, len(args))
	}

	if filters.StudentID != nil {
		add("student_id =", *filters.StudentID)
	}
	if filters.Type != nil {
		add("tx_type =", string(*filters.Type))
	}
	if filters.ReferenceID != nil {
		add("reference_id =", *filters.ReferenceID)
	}
	if filters.From != nil {
		add("created_at >=", *filters.From)
	}
	if filters.To != nil {
		add("created_at <", *filters.To)
	}

	sb.WriteString(" ORDER BY seq DESC")

	args = append(args, ClampLimit(filters.Limit))
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}
