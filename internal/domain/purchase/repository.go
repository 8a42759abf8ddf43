package purchase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
)

const commitTimeout = 5 * time.Second

// Repository applies the debit and the ownership grant as one unit.
type Repository interface {
	Commit(ctx context.Context, studentID uuid.UUID, item *store.Item) (*Result, error)
}

type repository struct {
	db        *sqlx.DB
	accounts  account.Repository
	inventory inventory.Repository
}

func NewRepository(db *sqlx.DB, accounts account.Repository, inv inventory.Repository) Repository {
	return &repository{db: db, accounts: accounts, inventory: inv}
}

// Commit locks the account row, debits the price, appends the purchase
// transaction and inserts the inventory entry in a single SQL transaction.
// A duplicate entry rolls the debit back and reports inventory.ErrAlreadyOwned.
func (r *repository) Commit(ctx context.Context, studentID uuid.UUID, item *store.Item) (*Result, error) {
	ctx2, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result := &Result{Item: item, State: StateValidated}

	if item.Price > 0 {
		acc, t, err := r.accounts.DebitTx(ctx2, tx, transaction.Entry{
			StudentID:   studentID,
			Amount:      item.Price,
			Type:        transaction.TypePurchase,
			ReferenceID: item.ID.String(),
			Description: "Purchased " + item.Name,
		})
		if err != nil {
			return nil, err
		}
		result.Account, result.Transaction = acc, t
	}
	result.State = StateDebited

	entry, err := r.inventory.GrantTx(ctx2, tx, studentID, item.ID)
	if err != nil {
		return nil, err
	}
	result.Entry = entry
	result.State = StateGranted

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	result.State = StateCommitted

	if result.Account == nil {
		acc, err := r.accounts.GetOrCreate(ctx, studentID)
		if err != nil {
			return nil, err
		}
		result.Account = acc
	}
	return result, nil
}
