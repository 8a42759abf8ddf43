package transaction

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes read access to the transaction log
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// History returns the student's transactions, most recent first.
func (s *Service) History(ctx context.Context, studentID uuid.UUID, limit int) ([]Transaction, error) {
	return s.repo.History(ctx, studentID, ClampLimit(limit))
}

// Search returns filtered transactions (admin use)
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Transaction, error) {
	filters.Limit = ClampLimit(filters.Limit)
	return s.repo.Search(ctx, filters)
}
