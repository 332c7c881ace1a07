// Package appointments owns appointment records and their status lifecycle.
// An appointment is Scheduled exactly once; the only mutations after that are
// the terminal transitions applied by the Transitioner under a per-record
// compare-and-swap.
package appointments

import "time"

// Status is an appointment's lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusExcused   Status = "excused"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusMissed, StatusExcused:
		return true
	}
	return false
}

// Terminal reports whether s ends the appointment's lifecycle. Everything
// except Scheduled is terminal; a Missed appointment is rescheduled by
// creating a new record, never by reopening the old one.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusScheduled
}

// Appointment is a single scheduled office visit or check-in. ScheduledAt is
// a time-zone-aware instant; Version backs the optimistic concurrency check
// on status updates.
type Appointment struct {
	ID            string    `json:"id"`
	ProbationerID string    `json:"probationer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Status        Status    `json:"status"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanTransition reports whether the appointment may move to the target
// status. Only Scheduled appointments transition, and only to a terminal
// status.
func (a *Appointment) CanTransition(to Status) bool {
	return a.Status == StatusScheduled && to.Terminal()
}
