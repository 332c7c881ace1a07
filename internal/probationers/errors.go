package probationers

import "errors"

// ErrNotFound is returned when no active probationer matches the lookup key.
// The conversational layer answers with its unknown-caller script; the core
// never retries.
var ErrNotFound = errors.New("probationer not found")
