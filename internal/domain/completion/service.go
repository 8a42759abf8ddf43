// Package completion turns catalog-source completion events into credit grants.
package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/transaction"
	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

const (
	DefaultModuleCredits = 10
	DefaultCourseCredits = 100
)

// Ledger is the subset of the account service used for grants.
type Ledger interface {
	GetOrCreate(ctx context.Context, studentID uuid.UUID) (*account.Account, error)
	Credit(ctx context.Context, studentID uuid.UUID, amount int64, txType transaction.Type, referenceID, description string) (*account.Account, *transaction.Transaction, error)
}

// Grant is the outcome of a completion event. Duplicate is set when the same
// completion was already credited; Transaction is nil in that case.
type Grant struct {
	Account     *account.Account
	Transaction *transaction.Transaction
	Duplicate   bool
}

type Service struct {
	ledger        Ledger
	moduleCredits int64
	courseCredits int64
}

// NewService creates the completion service. Non-positive amounts fall back
// to the defaults.
func NewService(ledger Ledger, moduleCredits, courseCredits int64) *Service {
	if moduleCredits <= 0 {
		moduleCredits = DefaultModuleCredits
	}
	if courseCredits <= 0 {
		courseCredits = DefaultCourseCredits
	}
	return &Service{ledger: ledger, moduleCredits: moduleCredits, courseCredits: courseCredits}
}

// ModuleCompleted grants the fixed module reward.
func (s *Service) ModuleCompleted(ctx context.Context, studentID uuid.UUID, moduleID string) (*Grant, error) {
	return s.grant(ctx, studentID, s.moduleCredits, transaction.TypeModuleCompletion, moduleID,
		fmt.Sprintf("Completed module %s", moduleID))
}

// CourseCompleted grants completionCredits, or the configured default when
// the course does not define its own reward.
func (s *Service) CourseCompleted(ctx context.Context, studentID uuid.UUID, courseID string, completionCredits int64) (*Grant, error) {
	amount := completionCredits
	if amount <= 0 {
		amount = s.courseCredits
	}
	return s.grant(ctx, studentID, amount, transaction.TypeCourseCompletion, courseID,
		fmt.Sprintf("Completed course %s", courseID))
}

func (s *Service) grant(ctx context.Context, studentID uuid.UUID, amount int64, txType transaction.Type, referenceID, description string) (*Grant, error) {
	a, t, err := s.ledger.Credit(ctx, studentID, amount, txType, referenceID, description)
	if err == nil {
		return &Grant{Account: a, Transaction: t}, nil
	}
	if !errors.Is(err, transaction.ErrDuplicateCompletion) {
		return nil, err
	}

	metrics.DuplicateCompletions.WithLabelValues(string(txType)).Inc()
	logger.LogInfo(ctx, "duplicate completion ignored",
		"student_id", studentID.String(),
		"type", string(txType),
		"reference_id", referenceID,
	)

	a, err = s.ledger.GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &Grant{Account: a, Duplicate: true}, nil
}
