package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/pkg/keylock"
	"github.com/learnhub/credits-api/internal/pkg/logger"
)

type Service struct {
	repo  Repository
	locks *keylock.Locker
}

func NewService(repo Repository, locks *keylock.Locker) *Service {
	return &Service{repo: repo, locks: locks}
}

// Inventory returns owned items, newest purchase first, with equip state
// read from the profile.
func (s *Service) Inventory(ctx context.Context, studentID uuid.UUID) ([]OwnedItem, error) {
	items, err := s.repo.ListOwned(ctx, studentID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].IsEquipped = profile.IsEquipped(items[i].Item.ID)
	}
	return items, nil
}

// OwnedItemIDs lists the ids a student owns
func (s *Service) OwnedItemIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return s.repo.OwnedItemIDs(ctx, studentID)
}

func (s *Service) GetProfile(ctx context.Context, studentID uuid.UUID) (*Profile, error) {
	return s.repo.GetProfile(ctx, studentID)
}

// Equip places an owned item into its profile slot.
func (s *Service) Equip(ctx context.Context, studentID, itemID uuid.UUID) (*Profile, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	item, err := s.repo.GetOwnedItem(ctx, studentID, itemID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.MutateProfile(ctx, studentID, func(p *Profile) error {
		return p.Equip(item)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("student_id", studentID.String()).
		Str("item_id", itemID.String()).
		Str("item_type", string(item.Type)).
		Msg("item equipped")
	return p, nil
}

// Unequip removes an owned item from whichever slot holds it. Unequipping
// an item that is not equipped is a no-op.
func (s *Service) Unequip(ctx context.Context, studentID, itemID uuid.UUID) (*Profile, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	owned, err := s.repo.IsOwned(ctx, studentID, itemID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotOwned
	}

	return s.repo.MutateProfile(ctx, studentID, func(p *Profile) error {
		p.Unequip(itemID)
		return nil
	})
}

// UpdateProfile sets bio, color and custom title. Long text is truncated.
func (s *Service) UpdateProfile(ctx context.Context, studentID uuid.UUID, u ProfileUpdate) (*Profile, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	return s.repo.MutateProfile(ctx, studentID, func(p *Profile) error {
		p.Apply(u)
		return nil
	})
}
