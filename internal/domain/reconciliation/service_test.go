package reconciliation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"

	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

type stubRepo struct {
	count      int
	mismatches []Mismatch
	err        error
}

func (s *stubRepo) CountAccounts(ctx context.Context) (int, error) {
	return s.count, s.err
}

func (s *stubRepo) Mismatches(ctx context.Context) ([]Mismatch, error) {
	return s.mismatches, s.err
}

func gaugeValue(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.ReconciliationMismatches.Write(&m); err != nil {
		t.Fatalf("read gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestCheckReportsMismatches(t *testing.T) {
	broken := Mismatch{StudentID: uuid.New(), TotalCredits: 90, LedgerTotal: 100, LifetimeCredits: 100, LedgerLifetime: 100}
	svc := NewService(&stubRepo{count: 3, mismatches: []Mismatch{broken}})
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	report, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.Checked != 3 || report.OK() {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Mismatches[0].StudentID != broken.StudentID {
		t.Fatalf("wrong mismatch reported")
	}
	if got := gaugeValue(t); got != 1 {
		t.Fatalf("expected gauge 1, got %v", got)
	}
}

func TestCheckCleanLedger(t *testing.T) {
	svc := NewService(&stubRepo{count: 5, mismatches: []Mismatch{}})

	report, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected clean report")
	}
	if got := gaugeValue(t); got != 0 {
		t.Fatalf("expected gauge reset to 0, got %v", got)
	}
}

func TestCheckHandlerHidesStorageErrors(t *testing.T) {
	h := NewHandler(NewService(&stubRepo{err: errors.New("connection refused")}))

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/admin/reconciliation", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWorkerRunsImmediately(t *testing.T) {
	repo := &stubRepo{count: 1, mismatches: []Mismatch{}}
	w := NewWorker(NewService(repo), time.Hour)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
}
