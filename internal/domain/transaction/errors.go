package transaction

import "errors"

var (
	// ErrDuplicateCompletion is returned when a completion grant for the same
	// (student, type, reference) was already recorded
	ErrDuplicateCompletion = errors.New("completion already granted")

	ErrInternal = errors.New("internal error")
)
