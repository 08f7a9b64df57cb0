package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset indicates there is nothing to render after validation and filtering.
	ErrEmptyDataset = errors.New("no timeline items to display")
	// ErrInvalidRange indicates an item starts after it ends.
	ErrInvalidRange = errors.New("start date after end date")
	// ErrMissingField indicates a required item field is unset.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicateID indicates two items share an ID.
	ErrDuplicateID = errors.New("duplicate item id")
	// ErrInvalidDayWidth indicates a non-positive pixels-per-day scale.
	ErrInvalidDayWidth = errors.New("day width must be positive")
	// ErrExternalZoom indicates a selection attempt on a caller-owned zoom.
	ErrExternalZoom = errors.New("zoom level is owned by the caller")
)

// ItemError reports a malformed item. It wraps one of ErrInvalidRange,
// ErrMissingField or ErrDuplicateID.
type ItemError struct {
	ID    string
	Group string
	Err   error
}

func (e *ItemError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("item %q in group %q: %v", e.ID, e.Group, e.Err)
	}
	return fmt.Sprintf("item %q: %v", e.ID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
