package store

import (
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ItemType is the profile slot an item goes into
type ItemType string

const (
	ItemTypeBanner      ItemType = "banner"
	ItemTypeAvatarFrame ItemType = "avatar_frame"
	ItemTypeTheme       ItemType = "theme"
	ItemTypeBadge       ItemType = "badge"
	ItemTypeTitle       ItemType = "title"
)

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeBanner, ItemTypeAvatarFrame, ItemTypeTheme, ItemTypeBadge, ItemTypeTitle:
		return true
	}
	return false
}

// Rarity of a store item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rank orders rarities; higher is rarer. Unknown rarities rank 0.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 1
	case RarityUncommon:
		return 2
	case RarityRare:
		return 3
	case RarityEpic:
		return 4
	case RarityLegendary:
		return 5
	}
	return 0
}

func (r Rarity) IsValid() bool {
	return r.Rank() > 0
}

// Item is a purchasable catalog entry
type Item struct {
	ID          uuid.UUID      `db:"id"`
	Slug        string         `db:"slug"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Type        ItemType       `db:"item_type"`
	Rarity      Rarity         `db:"rarity"`
	Price       int64          `db:"price"`
	UnlockLevel int            `db:"unlock_level"`
	IsActive    bool           `db:"is_active"`
	ImageURL    sql.NullString `db:"image_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// ListFilters narrows catalog listings. Nil fields do not filter.
type ListFilters struct {
	Type     *ItemType
	Rarity   *Rarity
	MaxPrice *int64
}

// Matches checks an item against the filters
func (f ListFilters) Matches(item *Item) bool {
	if f.Type != nil && item.Type != *f.Type {
		return false
	}
	if f.Rarity != nil && item.Rarity != *f.Rarity {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	return true
}

// AvailableItem is an item the student's level unlocks, with ownership
type AvailableItem struct {
	Item
	Owned bool
}

// SortItems orders items rarest first, then cheapest, then by name.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := a.Rarity.Rank(), b.Rarity.Rank(); ra != rb {
			return ra > rb
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Name < b.Name
	})
}
