package purchase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

type ItemReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*store.Item, error)
}

type AccountReader interface {
	GetOrCreate(ctx context.Context, studentID uuid.UUID) (*account.Account, error)
}

type OwnershipChecker interface {
	IsOwned(ctx context.Context, studentID, itemID uuid.UUID) (bool, error)
}

// Service orchestrates store purchases.
type Service struct {
	items    ItemReader
	accounts AccountReader
	owned    OwnershipChecker
	repo     Repository
	locks    *keylock.Locker
}

// NewService creates the purchase engine. locks must be the same locker the
// account service uses.
func NewService(items ItemReader, accounts AccountReader, owned OwnershipChecker, repo Repository, locks *keylock.Locker) *Service {
	return &Service{items: items, accounts: accounts, owned: owned, repo: repo, locks: locks}
}

// Purchase buys itemID for studentID. Validation failures abort before any
// write; the debit and the grant commit together or not at all.
func (s *Service) Purchase(ctx context.Context, studentID, itemID uuid.UUID) (*Result, error) {
	l := logger.FromContext(ctx).With().
		Str("student_id", studentID.String()).
		Str("item_id", itemID.String()).
		Logger()

	unlock := s.locks.Lock(studentID)
	defer unlock()

	l.Debug().Str("state", string(StateRequested)).Msg("purchase requested")

	result, err := s.purchase(ctx, studentID, itemID)
	outcome := outcomeOf(err)
	metrics.Purchases.WithLabelValues(outcome).Inc()

	if err != nil {
		event := l.Info()
		if outcome == metrics.OutcomeError {
			event = l.Error()
		}
		event.Err(err).Str("state", string(StateAborted)).Str("outcome", outcome).Msg("purchase aborted")
		return nil, err
	}

	l.Info().
		Str("state", string(result.State)).
		Int64("price", result.Item.Price).
		Int64("balance", result.Account.TotalCredits).
		Msg("purchase committed")
	return result, nil
}

func (s *Service) purchase(ctx context.Context, studentID, itemID uuid.UUID) (*Result, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, store.ErrItemInactive
	}

	acc, err := s.accounts.GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if acc.Level < item.UnlockLevel {
		return nil, &LevelTooLowError{Required: item.UnlockLevel, Current: acc.Level}
	}

	owned, err := s.owned.IsOwned(ctx, studentID, itemID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, inventory.ErrAlreadyOwned
	}

	return s.repo.Commit(ctx, studentID, item)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, store.ErrItemNotFound):
		return metrics.OutcomeItemNotFound
	case errors.Is(err, store.ErrItemInactive):
		return metrics.OutcomeItemInactive
	case errors.Is(err, ErrLevelTooLow):
		return metrics.OutcomeLevelTooLow
	case errors.Is(err, inventory.ErrAlreadyOwned):
		return metrics.OutcomeAlreadyOwned
	case errors.Is(err, account.ErrInsufficientCredits):
		return metrics.OutcomeInsufficientCredits
	}
	return metrics.OutcomeError
}
