package inventory

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/learnhub/credits-api/internal/domain/store"
)

func item(t store.ItemType, name string) *store.Item {
	return &store.Item{ID: uuid.New(), Name: name, Type: t, Rarity: store.RarityCommon}
}

func TestEquipSingularSlotOverwrites(t *testing.T) {
	p := NewProfile(uuid.New())
	first := item(store.ItemTypeBanner, "First")
	second := item(store.ItemTypeBanner, "Second")

	if err := p.Equip(first); err != nil {
		t.Fatalf("equip first: %v", err)
	}
	if err := p.Equip(second); err != nil {
		t.Fatalf("equip second: %v", err)
	}

	if p.BannerID.UUID != second.ID {
		t.Fatalf("expected banner %s, got %s", second.ID, p.BannerID.UUID)
	}
	if p.IsEquipped(first.ID) {
		t.Fatal("replaced banner still reported as equipped")
	}
}

func TestBadgeCap(t *testing.T) {
	p := NewProfile(uuid.New())
	badges := make([]*store.Item, 6)
	for i := range badges {
		badges[i] = item(store.ItemTypeBadge, "Badge")
	}

	for i := 0; i < MaxBadges; i++ {
		if err := p.Equip(badges[i]); err != nil {
			t.Fatalf("equip badge %d: %v", i, err)
		}
	}
	if err := p.Equip(badges[5]); !errors.Is(err, ErrBadgeSlotFull) {
		t.Fatalf("expected ErrBadgeSlotFull, got %v", err)
	}
	if err := p.Equip(badges[2]); err != nil {
		t.Fatalf("re-equipping an equipped badge should be a no-op, got %v", err)
	}
	if len(p.EquippedBadgeIDs) != MaxBadges {
		t.Fatalf("expected %d badges, got %d", MaxBadges, len(p.EquippedBadgeIDs))
	}

	if !p.Unequip(badges[0].ID) {
		t.Fatal("unequip reported no change")
	}
	if err := p.Equip(badges[5]); err != nil {
		t.Fatalf("equip after freeing a slot: %v", err)
	}
	if p.EquippedBadgeIDs[MaxBadges-1] != badges[5].ID.String() {
		t.Fatalf("new badge not appended last: %v", p.EquippedBadgeIDs)
	}
}

func TestUnequipIsIdempotent(t *testing.T) {
	p := NewProfile(uuid.New())
	theme := item(store.ItemTypeTheme, "Night")
	_ = p.Equip(theme)

	if !p.Unequip(theme.ID) {
		t.Fatal("first unequip should change the profile")
	}
	if p.Unequip(theme.ID) {
		t.Fatal("second unequip should be a no-op")
	}
	if p.ThemeID.Valid {
		t.Fatal("theme slot not cleared")
	}
}

func TestTitleEquipSetsCustomTitle(t *testing.T) {
	p := NewProfile(uuid.New())
	title := item(store.ItemTypeTitle, "Grand Scholar")

	if err := p.Equip(title); err != nil {
		t.Fatalf("equip: %v", err)
	}
	if p.CustomTitle != "Grand Scholar" || !p.IsEquipped(title.ID) {
		t.Fatalf("unexpected profile: %+v", p)
	}

	custom := "Night Owl"
	p.Apply(ProfileUpdate{CustomTitle: &custom})
	if p.IsEquipped(title.ID) {
		t.Fatal("hand-written title should detach the title item")
	}

	_ = p.Equip(title)
	p.Unequip(title.ID)
	if p.CustomTitle != "" {
		t.Fatalf("expected title cleared, got %q", p.CustomTitle)
	}
}

func TestApplyTruncatesByRunes(t *testing.T) {
	p := NewProfile(uuid.New())
	bio := strings.Repeat("é", 250)
	title := strings.Repeat("x", 80)
	color := "#112233"

	p.Apply(ProfileUpdate{Bio: &bio, CustomTitle: &title, ProfileColor: &color})

	if n := utf8.RuneCountInString(p.Bio); n != MaxBioLength {
		t.Fatalf("expected bio of %d runes, got %d", MaxBioLength, n)
	}
	if !utf8.ValidString(p.Bio) {
		t.Fatal("truncation split a rune")
	}
	if len(p.CustomTitle) != MaxCustomTitleLength {
		t.Fatalf("expected title of %d chars, got %d", MaxCustomTitleLength, len(p.CustomTitle))
	}
	if p.ProfileColor != color {
		t.Fatalf("expected color %s, got %s", color, p.ProfileColor)
	}
}

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile(uuid.New())
	if p.ProfileColor != DefaultProfileColor || len(p.EquippedBadgeIDs) != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
