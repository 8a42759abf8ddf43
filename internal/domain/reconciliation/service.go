package reconciliation

import (
	"context"
	"time"

	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Check compares every account's balance and lifetime earnings with the sums
// of its transactions.
func (s *Service) Check(ctx context.Context) (*Report, error) {
	checked, err := s.repo.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}
	mismatches, err := s.repo.Mismatches(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Checked: checked, Mismatches: mismatches, CheckedAt: s.now().UTC()}
	metrics.ReconciliationMismatches.Set(float64(len(mismatches)))

	l := logger.FromContext(ctx)
	for _, m := range mismatches {
		l.Error().
			Str("student_id", m.StudentID.String()).
			Int64("total_credits", m.TotalCredits).
			Int64("ledger_total", m.LedgerTotal).
			Int64("lifetime_credits", m.LifetimeCredits).
			Int64("ledger_lifetime", m.LedgerLifetime).
			Msg("account does not reconcile with transaction log")
	}
	l.Info().Int("checked", checked).Int("mismatches", len(mismatches)).Msg("reconciliation finished")

	return report, nil
}
