package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/learnhub/credits-api/internal/domain/store"
)

const queryTimeout = 3 * time.Second

const profileColumns = `student_id, banner_id, avatar_frame_id, theme_id, title_id, equipped_badge_ids, bio, profile_color, custom_title, created_at, updated_at`

type Repository interface {
	// GrantTx inserts the ownership record inside the caller's transaction.
	GrantTx(ctx context.Context, tx *sqlx.Tx, studentID, itemID uuid.UUID) (*Entry, error)
	IsOwned(ctx context.Context, studentID, itemID uuid.UUID) (bool, error)
	OwnedItemIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]struct{}, error)
	ListOwned(ctx context.Context, studentID uuid.UUID) ([]OwnedItem, error)
	GetOwnedItem(ctx context.Context, studentID, itemID uuid.UUID) (*store.Item, error)
	GetProfile(ctx context.Context, studentID uuid.UUID) (*Profile, error)
	// MutateProfile locks the profile row, applies fn and saves the result.
	MutateProfile(ctx context.Context, studentID uuid.UUID, fn func(*Profile) error) (*Profile, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GrantTx(ctx context.Context, tx *sqlx.Tx, studentID, itemID uuid.UUID) (*Entry, error) {
	var e Entry
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO inventory_entries (student_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, item_id) DO NOTHING
		RETURNING student_id, item_id, purchased_at
	`, studentID, itemID).StructScan(&e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyOwned
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyOwned
		}
		return nil, fmt.Errorf("%w: grant item: %v", ErrInternal, err)
	}
	return &e, nil
}

func (r *repository) IsOwned(ctx context.Context, studentID, itemID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var owned bool
	err := r.db.GetContext(ctx2, &owned, `
		SELECT EXISTS (SELECT 1 FROM inventory_entries WHERE student_id = $1 AND item_id = $2)
	`, studentID, itemID)
	if err != nil {
		return false, fmt.Errorf("%w: check ownership: %v", ErrInternal, err)
	}
	return owned, nil
}

func (r *repository) OwnedItemIDs(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx2, &ids, `SELECT item_id FROM inventory_entries WHERE student_id = $1`, studentID); err != nil {
		return nil, fmt.Errorf("%w: list owned ids: %v", ErrInternal, err)
	}

	owned := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		owned[id] = struct{}{}
	}
	return owned, nil
}

type ownedRow struct {
	store.Item
	PurchasedAt time.Time `db:"purchased_at"`
}

func (r *repository) ListOwned(ctx context.Context, studentID uuid.UUID) ([]OwnedItem, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows := make([]ownedRow, 0)
	err := r.db.SelectContext(ctx2, &rows, `
		SELECT s.id, s.slug, s.name, s.description, s.item_type, s.rarity, s.price, s.unlock_level,
		       s.is_active, s.image_url, s.created_at, s.updated_at, e.purchased_at
		FROM inventory_entries e
		JOIN store_items s ON s.id = e.item_id
		WHERE e.student_id = $1
		ORDER BY e.purchased_at DESC, s.name ASC
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: list inventory: %v", ErrInternal, err)
	}

	items := make([]OwnedItem, len(rows))
	for i, row := range rows {
		items[i] = OwnedItem{Item: row.Item, PurchasedAt: row.PurchasedAt}
	}
	return items, nil
}

func (r *repository) GetOwnedItem(ctx context.Context, studentID, itemID uuid.UUID) (*store.Item, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var item store.Item
	err := r.db.GetContext(ctx2, &item, `
		SELECT s.id, s.slug, s.name, s.description, s.item_type, s.rarity, s.price, s.unlock_level,
		       s.is_active, s.image_url, s.created_at, s.updated_at
		FROM inventory_entries e
		JOIN store_items s ON s.id = e.item_id
		WHERE e.student_id = $1 AND e.item_id = $2
	`, studentID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotOwned
		}
		return nil, fmt.Errorf("%w: get owned item: %v", ErrInternal, err)
	}
	return &item, nil
}

func (r *repository) GetProfile(ctx context.Context, studentID uuid.UUID) (*Profile, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := ensureProfile(ctx2, r.db, studentID); err != nil {
		return nil, err
	}

	var p Profile
	if err := r.db.GetContext(ctx2, &p, `SELECT `+profileColumns+` FROM student_profiles WHERE student_id = $1`, studentID); err != nil {
		return nil, fmt.Errorf("%w: get profile: %v", ErrInternal, err)
	}
	return &p, nil
}

func (r *repository) MutateProfile(ctx context.Context, studentID uuid.UUID, fn func(*Profile) error) (*Profile, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	if err := ensureProfile(ctx2, tx, studentID); err != nil {
		return nil, err
	}

	var p Profile
	if err := tx.GetContext(ctx2, &p, `SELECT `+profileColumns+` FROM student_profiles WHERE student_id = $1 FOR UPDATE`, studentID); err != nil {
		return nil, fmt.Errorf("%w: lock profile: %v", ErrInternal, err)
	}

	if err := fn(&p); err != nil {
		return nil, err
	}
	if p.EquippedBadgeIDs == nil {
		p.EquippedBadgeIDs = pq.StringArray{}
	}

	err = tx.QueryRowxContext(ctx2, `
		UPDATE student_profiles
		SET banner_id = $2, avatar_frame_id = $3, theme_id = $4, title_id = $5, equipped_badge_ids = $6,
		    bio = $7, profile_color = $8, custom_title = $9, updated_at = NOW()
		WHERE student_id = $1
		RETURNING `+profileColumns,
		p.StudentID, p.BannerID, p.AvatarFrameID, p.ThemeID, p.TitleID, p.EquippedBadgeIDs,
		p.Bio, p.ProfileColor, p.CustomTitle,
	).StructScan(&p)
	if err != nil {
		return nil, fmt.Errorf("%w: save profile: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return &p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func ensureProfile(ctx context.Context, db execer, studentID uuid.UUID) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO student_profiles (student_id)
		VALUES ($1)
		ON CONFLICT (student_id) DO NOTHING
	`, studentID)
	if err != nil {
		return fmt.Errorf("%w: ensure profile: %v", ErrInternal, err)
	}
	return nil
}
