package workbook

import (
	"errors"
	"fmt"
)

// ErrNoChanges is returned by a save when the edited buffer matches the
// snapshot and no attachment is staged. Callers surface it to the user
// instead of issuing a network call.
var ErrNoChanges = errors.New("no changes to save")

// ErrEditInProgress is returned when a second row edit is started while
// another row is still being edited.
var ErrEditInProgress = errors.New("another row is already being edited")

// ValidationError reports the first missing or invalid required field of
// a vendor assignment. It is raised before any network call.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
