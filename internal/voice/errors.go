package voice

import "errors"

// ErrNoCheckInDue is returned when a caller tries to check in but has no
// Scheduled appointment dated the current local day. The caller layer logs
// the contact by other means; the core does not invent an appointment.
var ErrNoCheckInDue = errors.New("no check-in due today")
