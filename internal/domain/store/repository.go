package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const itemColumns = `id, slug, name, description, item_type, rarity, price, unlock_level, is_active, image_url, created_at, updated_at`

const rarityOrder = `CASE rarity
	WHEN 'legendary' THEN 5
	WHEN 'epic' THEN 4
	WHEN 'rare' THEN 3
	WHEN 'uncommon' THEN 2
	ELSE 1 END DESC, price ASC, name ASC`

type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	// Upsert inserts or updates by slug and reports whether a row was created.
	Upsert(ctx context.Context, item *Item) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filters ListFilters, maxUnlockLevel int) ([]Item, error)
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
	HasOwners(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowxContext(ctx2, `
		INSERT INTO store_items (slug, name, description, item_type, rarity, price, unlock_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+itemColumns,
		item.Slug, item.Name, item.Description, item.Type, item.Rarity, item.Price, item.UnlockLevel, item.IsActive,
	).StructScan(item)
	if err != nil {
		return mapWriteError(err, "create item")
	}
	return nil
}

func (r *repository) Update(ctx context.Context, item *Item) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowxContext(ctx2, `
		UPDATE store_items
		SET slug = $2, name = $3, description = $4, item_type = $5, rarity = $6,
		    price = $7, unlock_level = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		  AND (item_type = $5 OR NOT EXISTS (SELECT 1 FROM inventory_entries WHERE item_id = $1))
		RETURNING `+itemColumns,
		item.ID, item.Slug, item.Name, item.Description, item.Type, item.Rarity, item.Price, item.UnlockLevel, item.IsActive,
	).StructScan(item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := r.db.GetContext(ctx2, &exists, `SELECT EXISTS (SELECT 1 FROM store_items WHERE id = $1)`, item.ID); err != nil {
				return fmt.Errorf("%w: update item: %v", ErrInternal, err)
			}
			if exists {
				return ErrItemTypeLocked
			}
			return ErrItemNotFound
		}
		return mapWriteError(err, "update item")
	}
	return nil
}

func (r *repository) Upsert(ctx context.Context, item *Item) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var created bool
	err := r.db.QueryRowxContext(ctx2, `
		INSERT INTO store_items (slug, name, description, item_type, rarity, price, unlock_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, item_type = EXCLUDED.item_type,
		    rarity = EXCLUDED.rarity, price = EXCLUDED.price, unlock_level = EXCLUDED.unlock_level,
		    is_active = EXCLUDED.is_active, updated_at = NOW()
		WHERE store_items.item_type = EXCLUDED.item_type
		   OR NOT EXISTS (SELECT 1 FROM inventory_entries WHERE item_id = store_items.id)
		RETURNING id, (xmax = 0) AS created
	`, item.Slug, item.Name, item.Description, item.Type, item.Rarity, item.Price, item.UnlockLevel, item.IsActive,
	).Scan(&item.ID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrItemTypeLocked
		}
		return false, mapWriteError(err, "upsert item")
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var item Item
	err := r.db.GetContext(ctx2, &item, `SELECT `+itemColumns+` FROM store_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: get item: %v", ErrInternal, err)
	}
	return &item, nil
}

// List returns active items matching filters. maxUnlockLevel > 0 also
// excludes items gated above that level.
func (r *repository) List(ctx context.Context, filters ListFilters, maxUnlockLevel int) ([]Item, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	conds := []string{"is_active = TRUE"}
	args := make([]interface{}, 0, 4)
	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filters.Type != nil {
		add("item_type = $%d", string(*filters.Type))
	}
	if filters.Rarity != nil {
		add("rarity = $%d", string(*filters.Rarity))
	}
	if filters.MaxPrice != nil {
		add("price <= $%d", *filters.MaxPrice)
	}
	if maxUnlockLevel > 0 {
		add("unlock_level <= $%d", maxUnlockLevel)
	}

	query := `SELECT ` + itemColumns + ` FROM store_items WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY ` + rarityOrder

	items := make([]Item, 0)
	if err := r.db.SelectContext(ctx2, &items, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list items: %v", ErrInternal, err)
	}
	return items, nil
}

func (r *repository) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `UPDATE store_items SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("%w: set image url: %v", ErrInternal, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) HasOwners(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var owned bool
	err := r.db.GetContext(ctx2, &owned, `SELECT EXISTS (SELECT 1 FROM inventory_entries WHERE item_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("%w: item owners: %v", ErrInternal, err)
	}
	return owned, nil
}

func mapWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrSlugTaken
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
