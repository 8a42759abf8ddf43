package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

// ChangeListener is notified after a credit commits.
type ChangeListener interface {
	AccountCredited(ctx context.Context, studentID uuid.UUID)
}

// Service is the account ledger: balance, lifetime earnings and progression.
type Service struct {
	repo      Repository
	locks     *keylock.Locker
	listeners []ChangeListener
}

// NewService creates the ledger service. locks must be shared with every
// other component that mutates balances so one student's mutations serialize.
func NewService(repo Repository, locks *keylock.Locker, listeners ...ChangeListener) *Service {
	return &Service{repo: repo, locks: locks, listeners: listeners}
}

// GetOrCreate returns the student's account, creating a zeroed one on first touch.
func (s *Service) GetOrCreate(ctx context.Context, studentID uuid.UUID) (*Account, error) {
	return s.repo.GetOrCreate(ctx, studentID)
}

// Get returns an existing account without creating one.
func (s *Service) Get(ctx context.Context, studentID uuid.UUID) (*Account, error) {
	return s.repo.GetByStudentID(ctx, studentID)
}

// Credit adds amount to balance, lifetime and experience and appends a
// positive transaction.
func (s *Service) Credit(ctx context.Context, studentID uuid.UUID, amount int64, txType transaction.Type, referenceID, description string) (*Account, *transaction.Transaction, error) {
	if amount <= 0 || amount > MaxAmount {
		return nil, nil, ErrInvalidAmount
	}

	unlock := s.locks.Lock(studentID)
	a, t, err := s.repo.Credit(ctx, transaction.Entry{
		StudentID:   studentID,
		Amount:      amount,
		Type:        txType,
		ReferenceID: referenceID,
		Description: description,
	})
	unlock()
	if err != nil {
		return nil, nil, err
	}

	metrics.CreditsGranted.WithLabelValues(string(txType)).Add(float64(amount))
	logger.FromContext(ctx).Info().
		Str("student_id", studentID.String()).
		Int64("amount", amount).
		Str("type", string(txType)).
		Int64("balance", a.TotalCredits).
		Int("level", a.Level).
		Msg("credits granted")

	for _, l := range s.listeners {
		l.AccountCredited(ctx, studentID)
	}
	return a, t, nil
}

// Debit removes amount from the spendable balance and appends a negative
// transaction. Lifetime credits and experience are unaffected.
func (s *Service) Debit(ctx context.Context, studentID uuid.UUID, amount int64, txType transaction.Type, referenceID, description string) (*Account, *transaction.Transaction, error) {
	if amount <= 0 || amount > MaxAmount {
		return nil, nil, ErrInvalidAmount
	}

	unlock := s.locks.Lock(studentID)
	a, t, err := s.repo.Debit(ctx, transaction.Entry{
		StudentID:   studentID,
		Amount:      amount,
		Type:        txType,
		ReferenceID: referenceID,
		Description: description,
	})
	unlock()
	if err != nil {
		return nil, nil, err
	}

	metrics.CreditsDebited.WithLabelValues(string(txType)).Add(float64(amount))
	logger.FromContext(ctx).Info().
		Str("student_id", studentID.String()).
		Int64("amount", amount).
		Str("type", string(txType)).
		Int64("balance", a.TotalCredits).
		Msg("credits debited")
	return a, t, nil
}

// AwardManually is the administrative credit. Same contract as Credit, type bonus.
func (s *Service) AwardManually(ctx context.Context, studentID uuid.UUID, amount int64, description string) (*Account, *transaction.Transaction, error) {
	return s.Credit(ctx, studentID, amount, transaction.TypeBonus, "", description)
}

// DeductManually is the administrative correction of an over-grant.
func (s *Service) DeductManually(ctx context.Context, studentID uuid.UUID, amount int64, description string) (*Account, *transaction.Transaction, error) {
	return s.Debit(ctx, studentID, amount, transaction.TypeAdminAdjustment, "", description)
}
