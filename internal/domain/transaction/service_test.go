package transaction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type stubRepo struct {
	lastLimit   int
	lastFilters SearchFilters
	items       []Transaction
}

func (s *stubRepo) AppendTx(ctx context.Context, tx *sqlx.Tx, entry Entry) (*Transaction, error) {
	return nil, nil
}

func (s *stubRepo) History(ctx context.Context, studentID uuid.UUID, limit int) ([]Transaction, error) {
	s.lastLimit = limit
	return s.items, nil
}

func (s *stubRepo) Search(ctx context.Context, filters SearchFilters) ([]Transaction, error) {
	s.lastFilters = filters
	return s.items, nil
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{
		-5:  DefaultHistoryLimit,
		0:   DefaultHistoryLimit,
		1:   1,
		50:  50,
		100: 100,
		500: MaxHistoryLimit,
	}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestHistoryClampsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	if _, err := svc.History(context.Background(), uuid.New(), 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != MaxHistoryLimit {
		t.Fatalf("expected limit %d, got %d", MaxHistoryLimit, repo.lastLimit)
	}
}

func TestSearchDefaultsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	if _, err := svc.Search(context.Background(), SearchFilters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilters.Limit != DefaultHistoryLimit {
		t.Fatalf("expected default limit, got %d", repo.lastFilters.Limit)
	}
}

func TestBuildSearchQueryNumbersPlaceholders(t *testing.T) {
	studentID := uuid.New()
	txType := TypePurchase
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildSearchQuery(SearchFilters{
		StudentID: &studentID,
		Type:      &txType,
		From:      &from,
		Limit:     10,
	})

	for _, fragment := range []string{"student_id = $1", "tx_type = $2", "created_at >= $3", "LIMIT $4", "OFFSET $5"} {
		if !strings.Contains(query, fragment) {
			t.Errorf("expected query to contain %q:\n%s", fragment, query)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
	if args[1] != "purchase" {
		t.Fatalf("expected type arg purchase, got %v", args[1])
	}
	if !strings.Contains(query, "ORDER BY seq DESC") || strings.Contains(query, "ORDER BY created_at") {
		t.Fatalf("expected commit-order sort on seq:\n%s", query)
	}
}

func TestTypeClassification(t *testing.T) {
	if !TypeModuleCompletion.IsCompletion() || !TypeCourseCompletion.IsCompletion() {
		t.Fatal("completion types not recognised")
	}
	if TypePurchase.IsCompletion() || TypeBonus.IsCompletion() {
		t.Fatal("non-completion types recognised as completion")
	}
	if Type("refund").IsValid() {
		t.Fatal("unknown type reported valid")
	}
}
