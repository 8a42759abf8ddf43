package inventory

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/learnhub/credits-api/internal/domain/store"
)

const (
	MaxBadges            = 5
	MaxBioLength         = 200
	MaxCustomTitleLength = 50
	DefaultProfileColor  = "#4f46e5"
)

// Entry is an ownership record, one per (student, item)
type Entry struct {
	StudentID   uuid.UUID `db:"student_id"`
	ItemID      uuid.UUID `db:"item_id"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// OwnedItem is an owned catalog item with its equip state. IsEquipped is
// derived from the profile.
type OwnedItem struct {
	Item        store.Item
	PurchasedAt time.Time
	IsEquipped  bool
}

// Profile holds the student's equip slots and customization. It is the only
// record of what is equipped.
type Profile struct {
	StudentID        uuid.UUID      `db:"student_id"`
	BannerID         uuid.NullUUID  `db:"banner_id"`
	AvatarFrameID    uuid.NullUUID  `db:"avatar_frame_id"`
	ThemeID          uuid.NullUUID  `db:"theme_id"`
	TitleID          uuid.NullUUID  `db:"title_id"`
	EquippedBadgeIDs pq.StringArray `db:"equipped_badge_ids"`
	Bio              string         `db:"bio"`
	ProfileColor     string         `db:"profile_color"`
	CustomTitle      string         `db:"custom_title"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// NewProfile returns the default profile for a student
func NewProfile(studentID uuid.UUID) *Profile {
	now := time.Now()
	return &Profile{
		StudentID:        studentID,
		EquippedBadgeIDs: pq.StringArray{},
		ProfileColor:     DefaultProfileColor,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (p *Profile) slot(t store.ItemType) *uuid.NullUUID {
	switch t {
	case store.ItemTypeBanner:
		return &p.BannerID
	case store.ItemTypeAvatarFrame:
		return &p.AvatarFrameID
	case store.ItemTypeTheme:
		return &p.ThemeID
	case store.ItemTypeTitle:
		return &p.TitleID
	}
	return nil
}

func (p *Profile) badgeIndex(id uuid.UUID) int {
	s := id.String()
	for i, b := range p.EquippedBadgeIDs {
		if b == s {
			return i
		}
	}
	return -1
}

// Equip puts an owned item into its slot. Singular slots are overwritten;
// badges are appended up to MaxBadges and re-equipping one is a no-op.
func (p *Profile) Equip(item *store.Item) error {
	if item.Type == store.ItemTypeBadge {
		if p.badgeIndex(item.ID) >= 0 {
			return nil
		}
		if len(p.EquippedBadgeIDs) >= MaxBadges {
			return ErrBadgeSlotFull
		}
		p.EquippedBadgeIDs = append(p.EquippedBadgeIDs, item.ID.String())
		return nil
	}

	slot := p.slot(item.Type)
	if slot == nil {
		return ErrNotEquipable
	}
	*slot = uuid.NullUUID{UUID: item.ID, Valid: true}
	if item.Type == store.ItemTypeTitle {
		p.CustomTitle = truncate(item.Name, MaxCustomTitleLength)
	}
	return nil
}

// Unequip clears whichever slot holds itemID. Reports whether anything changed.
func (p *Profile) Unequip(itemID uuid.UUID) bool {
	changed := false
	for _, slot := range []*uuid.NullUUID{&p.BannerID, &p.AvatarFrameID, &p.ThemeID, &p.TitleID} {
		if slot.Valid && slot.UUID == itemID {
			*slot = uuid.NullUUID{}
			changed = true
			if slot == &p.TitleID {
				p.CustomTitle = ""
			}
		}
	}
	if i := p.badgeIndex(itemID); i >= 0 {
		p.EquippedBadgeIDs = append(p.EquippedBadgeIDs[:i:i], p.EquippedBadgeIDs[i+1:]...)
		changed = true
	}
	return changed
}

// IsEquipped reports whether itemID occupies any slot
func (p *Profile) IsEquipped(itemID uuid.UUID) bool {
	for _, slot := range []uuid.NullUUID{p.BannerID, p.AvatarFrameID, p.ThemeID, p.TitleID} {
		if slot.Valid && slot.UUID == itemID {
			return true
		}
	}
	return p.badgeIndex(itemID) >= 0
}

// ProfileUpdate carries optional customization fields
type ProfileUpdate struct {
	Bio          *string
	ProfileColor *string
	CustomTitle  *string
}

// Apply sets the provided fields. Bio and custom title are truncated to
// their limits; a hand-written title detaches any equipped title item.
func (p *Profile) Apply(u ProfileUpdate) {
	if u.Bio != nil {
		p.Bio = truncate(*u.Bio, MaxBioLength)
	}
	if u.ProfileColor != nil {
		p.ProfileColor = *u.ProfileColor
	}
	if u.CustomTitle != nil {
		p.CustomTitle = truncate(*u.CustomTitle, MaxCustomTitleLength)
		p.TitleID = uuid.NullUUID{}
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
