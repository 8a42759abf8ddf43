package completion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/transaction"
)

type stubLedger struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*account.Account
	seen     map[string]bool
	failWith error
}

func newStubLedger() *stubLedger {
	return &stubLedger{accounts: map[uuid.UUID]*account.Account{}, seen: map[string]bool{}}
}

func (s *stubLedger) GetOrCreate(ctx context.Context, studentID uuid.UUID) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(studentID), nil
}

func (s *stubLedger) get(studentID uuid.UUID) *account.Account {
	a, ok := s.accounts[studentID]
	if !ok {
		a = account.New(studentID)
		s.accounts[studentID] = a
	}
	return a
}

func (s *stubLedger) Credit(ctx context.Context, studentID uuid.UUID, amount int64, txType transaction.Type, referenceID, description string) (*account.Account, *transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, nil, s.failWith
	}

	key := studentID.String() + "/" + string(txType) + "/" + referenceID
	if s.seen[key] {
		return nil, nil, transaction.ErrDuplicateCompletion
	}
	s.seen[key] = true

	a := s.get(studentID)
	a.TotalCredits += amount
	a.LifetimeCredits += amount
	a.Experience += amount
	a.Level = account.LevelFor(a.Experience)
	copied := *a
	return &copied, &transaction.Transaction{ID: uuid.New(), StudentID: studentID, Amount: amount, Type: txType}, nil
}

func TestModuleCompletedGrantsConfiguredAmount(t *testing.T) {
	ledger := newStubLedger()
	svc := NewService(ledger, 0, 0)
	student := uuid.New()

	g, err := svc.ModuleCompleted(context.Background(), student, "mod-1")
	if err != nil {
		t.Fatalf("ModuleCompleted: %v", err)
	}
	if g.Duplicate {
		t.Fatalf("first completion flagged as duplicate")
	}
	if g.Account.TotalCredits != DefaultModuleCredits {
		t.Fatalf("expected %d credits, got %d", DefaultModuleCredits, g.Account.TotalCredits)
	}
	if g.Transaction.Type != transaction.TypeModuleCompletion {
		t.Fatalf("unexpected transaction type %s", g.Transaction.Type)
	}
}

func TestCourseCompletedUsesCourseRewardOrDefault(t *testing.T) {
	ledger := newStubLedger()
	svc := NewService(ledger, 10, 150)
	student := uuid.New()

	g, err := svc.CourseCompleted(context.Background(), student, "course-a", 250)
	if err != nil {
		t.Fatalf("CourseCompleted: %v", err)
	}
	if g.Transaction.Amount != 250 {
		t.Fatalf("expected course reward 250, got %d", g.Transaction.Amount)
	}

	g, err = svc.CourseCompleted(context.Background(), student, "course-b", 0)
	if err != nil {
		t.Fatalf("CourseCompleted: %v", err)
	}
	if g.Transaction.Amount != 150 {
		t.Fatalf("expected configured default 150, got %d", g.Transaction.Amount)
	}
	if g.Account.TotalCredits != 400 {
		t.Fatalf("expected balance 400, got %d", g.Account.TotalCredits)
	}
}

func TestDuplicateCompletionIsNotCreditedTwice(t *testing.T) {
	ledger := newStubLedger()
	svc := NewService(ledger, 10, 100)
	student := uuid.New()
	ctx := context.Background()

	if _, err := svc.CourseCompleted(ctx, student, "course-a", 0); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	g, err := svc.CourseCompleted(ctx, student, "course-a", 0)
	if err != nil {
		t.Fatalf("replayed completion: %v", err)
	}
	if !g.Duplicate || g.Transaction != nil {
		t.Fatalf("expected duplicate without transaction, got %+v", g)
	}
	if g.Account.TotalCredits != 100 {
		t.Fatalf("expected balance to stay 100, got %d", g.Account.TotalCredits)
	}
}

func TestSameReferenceDifferentTypeIsNotDuplicate(t *testing.T) {
	ledger := newStubLedger()
	svc := NewService(ledger, 10, 100)
	student := uuid.New()
	ctx := context.Background()

	if _, err := svc.ModuleCompleted(ctx, student, "x"); err != nil {
		t.Fatalf("module: %v", err)
	}
	g, err := svc.CourseCompleted(ctx, student, "x", 0)
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if g.Duplicate {
		t.Fatalf("course completion with module reference flagged as duplicate")
	}
}

func TestGrantPropagatesLedgerFailure(t *testing.T) {
	ledger := newStubLedger()
	ledger.failWith = account.ErrInternal
	svc := NewService(ledger, 10, 100)

	_, err := svc.ModuleCompleted(context.Background(), uuid.New(), "mod-1")
	if !errors.Is(err, account.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
