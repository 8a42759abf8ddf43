package leaderboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/metrics"
)

// Service is the read-only ranking projection over accounts.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates the leaderboard. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Top returns up to limit ranked accounts. Cache failures fall back to the
// database.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	limit = clampLimit(limit)

	cache, generation := s.cacheGeneration(ctx)
	if cache != nil {
		entries, ok, err := cache.GetTop(ctx, generation, limit)
		switch {
		case err != nil:
			logger.LogWarn(ctx, "leaderboard cache read failed", "error", err.Error())
		case ok:
			metrics.LeaderboardCache.WithLabelValues("hit").Inc()
			return entries, nil
		default:
			metrics.LeaderboardCache.WithLabelValues("miss").Inc()
		}
	}

	entries, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Stored under the generation read before the query; a credit committed
	// meanwhile has already moved readers to the next generation.
	if cache != nil {
		if err := cache.SetTop(ctx, generation, limit, entries); err != nil {
			logger.LogWarn(ctx, "leaderboard cache write failed", "error", err.Error())
		}
	}
	return entries, nil
}

// cacheGeneration returns a nil cache when caching is off or unreachable.
func (s *Service) cacheGeneration(ctx context.Context) (Cache, int64) {
	if s.cache == nil {
		return nil, 0
	}
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		logger.LogWarn(ctx, "leaderboard cache read failed", "error", err.Error())
		return nil, 0
	}
	return s.cache, generation
}

// RankOf returns the student's 1-based rank, or Ranked=false without an account.
func (s *Service) RankOf(ctx context.Context, studentID uuid.UUID) (*Standing, error) {
	rank, ranked, err := s.repo.RankOf(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &Standing{StudentID: studentID, Rank: rank, Ranked: ranked}, nil
}

// AccountCredited drops cached top lists; lifetime credits only move on credit.
func (s *Service) AccountCredited(ctx context.Context, studentID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.LogWarn(ctx, "leaderboard cache invalidation failed", "error", err.Error(), "student_id", studentID.String())
	}
}
