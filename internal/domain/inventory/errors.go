package inventory

import "errors"

var (
	// ErrAlreadyOwned is returned when granting an item the student already has
	ErrAlreadyOwned = errors.New("item already owned")

	// ErrNotOwned is returned when equipping or unequipping an item the student does not own
	ErrNotOwned = errors.New("item not owned")

	// ErrBadgeSlotFull is returned when all badge slots are taken
	ErrBadgeSlotFull = errors.New("all badge slots are in use")

	ErrNotEquipable = errors.New("item type cannot be equipped")

	ErrInternal = errors.New("internal error")
)
