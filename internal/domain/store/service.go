package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/pkg/imaging"
	"github.com/learnhub/credits-api/internal/pkg/logger"
	"github.com/learnhub/credits-api/internal/pkg/storage"
)

// AccountReader resolves a student's current level
type AccountReader interface {
	GetOrCreate(ctx context.Context, studentID uuid.UUID) (*account.Account, error)
}

// OwnershipReader lists the items a student owns
type OwnershipReader interface {
	OwnedItemIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type Service struct {
	repo     Repository
	accounts AccountReader
	owned    OwnershipReader
	files    storage.Storage
}

// NewService creates the catalog service. files may be nil, which disables
// artwork upload.
func NewService(repo Repository, accounts AccountReader, owned OwnershipReader, files storage.Storage) *Service {
	return &Service{repo: repo, accounts: accounts, owned: owned, files: files}
}

// GetByID returns an item regardless of its active flag
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns active items, rarest first then cheapest.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Item, error) {
	return s.repo.List(ctx, filters, 0)
}

// AvailableFor returns active items unlocked at the student's level, each
// annotated with whether the student already owns it.
func (s *Service) AvailableFor(ctx context.Context, studentID uuid.UUID, filters ListFilters) ([]AvailableItem, error) {
	acc, err := s.accounts.GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, filters, acc.Level)
	if err != nil {
		return nil, err
	}

	owned, err := s.owned.OwnedItemIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]AvailableItem, 0, len(items))
	for _, item := range items {
		_, has := owned[item.ID]
		result = append(result, AvailableItem{Item: item, Owned: has})
	}
	return result, nil
}

// Create adds a catalog item. The slug is derived from the name when empty.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	item := &Item{
		Slug:        req.Slug,
		Name:        req.Name,
		Type:        ItemType(req.Type),
		Rarity:      Rarity(req.Rarity),
		Price:       req.Price,
		UnlockLevel: req.UnlockLevel,
		IsActive:    true,
	}
	if req.Description != "" {
		item.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	normalize(item)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("item_id", item.ID.String()).
		Str("slug", item.Slug).
		Int64("price", item.Price).
		Msg("store item created")
	return item, nil
}

// Update applies a partial change. Setting is_active false retires the
// item from listings and purchase without touching existing ownership.
// The type of an owned item is fixed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Slug != nil {
		item.Slug = *req.Slug
	}
	if req.Description != nil {
		item.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Type != nil && ItemType(*req.Type) != item.Type {
		owned, err := s.repo.HasOwners(ctx, id)
		if err != nil {
			return nil, err
		}
		if owned {
			return nil, ErrItemTypeLocked
		}
		item.Type = ItemType(*req.Type)
	}
	if req.Rarity != nil {
		item.Rarity = Rarity(*req.Rarity)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.UnlockLevel != nil {
		item.UnlockLevel = *req.UnlockLevel
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	normalize(item)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AttachImage fits the uploaded artwork to the item's slot size, stores it
// and records its public URL on the item.
func (s *Service) AttachImage(ctx context.Context, id uuid.UUID, file io.Reader) (*Item, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, _, err := storage.ValidateArtwork(file, storage.MaxArtworkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtwork, err)
	}

	art, err := imaging.RenderArtwork(data, string(item.Type))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtwork, err)
	}

	key := fmt.Sprintf("store/items/%s/%s-%d.png", item.ID, item.Slug, time.Now().Unix())
	if err := s.files.Put(ctx, key, bytes.NewReader(art.Data), art.ContentType); err != nil {
		return nil, fmt.Errorf("%w: upload artwork: %v", ErrInternal, err)
	}

	url := s.files.GetURL(key)
	if err := s.repo.SetImageURL(ctx, item.ID, url); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			logger.LogError(ctx, delErr, "failed to remove orphaned artwork", "key", key)
		}
		return nil, err
	}
	item.ImageURL = sql.NullString{String: url, Valid: true}

	logger.LogInfo(ctx, "store item artwork updated", "item_id", item.ID.String(), "key", key)
	return item, nil
}

// Seed upserts catalog entries by slug.
func (s *Service) Seed(ctx context.Context, entries []SeedItem) (created, updated int, err error) {
	for _, e := range entries {
		item := e.toItem()
		normalize(item)
		if !item.Type.IsValid() || !item.Rarity.IsValid() {
			return created, updated, fmt.Errorf("seed item %q: invalid type %q or rarity %q", item.Name, item.Type, item.Rarity)
		}

		isNew, err := s.repo.Upsert(ctx, item)
		if err != nil {
			if errors.Is(err, ErrSlugTaken) || errors.Is(err, ErrItemTypeLocked) {
				return created, updated, fmt.Errorf("seed item %q: %w", item.Name, err)
			}
			return created, updated, err
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

func normalize(item *Item) {
	if item.Slug == "" {
		item.Slug = slug.Make(item.Name)
	} else {
		item.Slug = slug.Make(item.Slug)
	}
	if item.UnlockLevel < 1 {
		item.UnlockLevel = 1
	}
}
