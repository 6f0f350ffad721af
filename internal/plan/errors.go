// ABOUTME: Error taxonomy for plan store operations
// ABOUTME: Precondition and not-found umbrellas matched with errors.Is

package plan

import (
	"errors"
	"fmt"
)

// ErrPrecondition matches every error raised because an operation's
// preconditions were not met. State is never modified in that case.
var ErrPrecondition = errors.New("precondition failed")

// ErrNotFound matches every error raised for a missing day or item.
var ErrNotFound = errors.New("not found")

var (
	ErrNoStartDate          = fmt.Errorf("%w: set a start date before adding days", ErrPrecondition)
	ErrConfirmationRequired = fmt.Errorf("%w: the current plan is not empty, confirmation required", ErrPrecondition)
	ErrIncompleteLocation   = fmt.Errorf("%w: a location needs a name and resolved coordinates", ErrPrecondition)
	ErrEmptyNote            = fmt.Errorf("%w: note content cannot be empty", ErrPrecondition)
	ErrNeedsGeocode         = fmt.Errorf("%w: name changed, resolve new coordinates first", ErrPrecondition)
	ErrItemTypeMismatch     = fmt.Errorf("%w: patch does not match the item type", ErrPrecondition)
	ErrInvalidCoordinates   = fmt.Errorf("%w: coordinates out of range", ErrPrecondition)
	ErrInvalidDateRange     = fmt.Errorf("%w: end date is before start date", ErrPrecondition)
	ErrNoActiveEdit         = fmt.Errorf("%w: no item is being edited", ErrPrecondition)
)

var (
	ErrDayNotFound  = fmt.Errorf("day %w", ErrNotFound)
	ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)
)
