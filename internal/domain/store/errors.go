package store

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemInactive = errors.New("item is not available")
	ErrSlugTaken    = errors.New("item slug already exists")

	// ErrItemTypeLocked is returned when retyping an item students already own;
	// its id may sit in an equipped slot of the old type.
	ErrItemTypeLocked = errors.New("item type cannot change once owned")

	// ErrStorageDisabled is returned by artwork upload when no object store is configured
	ErrStorageDisabled = errors.New("artwork storage is not configured")
	ErrInvalidArtwork  = errors.New("invalid artwork image")

	ErrInternal = errors.New("internal error")
)
