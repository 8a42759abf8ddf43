package store

import (
	"database/sql"
	"fmt"

	"github.com/BurntSushi/toml"
)

// SeedItem is one [[item]] table of a catalog seed file
type SeedItem struct {
	Slug        string `toml:"slug"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Type        string `toml:"type"`
	Rarity      string `toml:"rarity"`
	Price       int64  `toml:"price"`
	UnlockLevel int    `toml:"unlock_level"`
	Active      *bool  `toml:"active"`
}

type seedFile struct {
	Items []SeedItem `toml:"item"`
}

// LoadSeedFile parses a TOML catalog seed file.
func LoadSeedFile(path string) ([]SeedItem, error) {
	var f seedFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown keys %v", path, undecoded)
	}
	for i, item := range f.Items {
		if item.Name == "" {
			return nil, fmt.Errorf("parse %s: item %d has no name", path, i+1)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("parse %s: item %q has a negative price", path, item.Name)
		}
	}
	return f.Items, nil
}

func (s SeedItem) toItem() *Item {
	item := &Item{
		Slug:        s.Slug,
		Name:        s.Name,
		Type:        ItemType(s.Type),
		Rarity:      Rarity(s.Rarity),
		Price:       s.Price,
		UnlockLevel: s.UnlockLevel,
		IsActive:    true,
	}
	if s.Description != "" {
		item.Description = sql.NullString{String: s.Description, Valid: true}
	}
	if s.Active != nil {
		item.IsActive = *s.Active
	}
	return item
}
