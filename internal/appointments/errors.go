package appointments

import "errors"

var (
	// ErrNotFound is returned when no appointment matches the lookup.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when a status change targets an
	// appointment that is no longer Scheduled, including the case where a
	// concurrent transition committed first. Surfaced to the caller layer and
	// logged; never silently ignored, never retried.
	ErrInvalidTransition = errors.New("appointment status transition not allowed")
)
