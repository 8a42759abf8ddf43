package purchase

import (
	"errors"
	"fmt"
)

// ErrLevelTooLow is matched by every LevelTooLowError
var ErrLevelTooLow = errors.New("level too low")

// LevelTooLowError carries the level an item requires
type LevelTooLowError struct {
	Required int
	Current  int
}

func (e *LevelTooLowError) Error() string {
	return fmt.Sprintf("Requires level %d", e.Required)
}

func (e *LevelTooLowError) Is(target error) bool {
	return target == ErrLevelTooLow
}

var ErrInternal = errors.New("internal error")
