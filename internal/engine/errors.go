package engine

import (
	"errors"
	"fmt"

	"github.com/julianstephens/remindue/internal/storage"
)

// ErrNotFound is returned when an operation targets an obligation that
// does not exist.
var ErrNotFound = storage.ErrNotFound

// ErrNotificationUnavailable indicates the notification gateway could not
// schedule. The obligation was still persisted, without a handle; callers
// should warn, not abort.
var ErrNotificationUnavailable = errors.New("notification gateway unavailable")

// ValidationError describes rejected user input. No state was mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
