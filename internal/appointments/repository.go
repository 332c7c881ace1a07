package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the storage interface for appointment records. Records
// are never deleted; status history is carried by the status column plus the
// version counter.
type Repository interface {
	Create(ctx context.Context, probationerID string, scheduledAt time.Time) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	// GetScheduled returns the earliest Scheduled appointment at or after
	// from, or ErrNotFound when none exists.
	GetScheduled(ctx context.Context, probationerID string, from time.Time) (*Appointment, error)
	// ListMissed returns the probationer's Missed appointments, most recent
	// first.
	ListMissed(ctx context.Context, probationerID string) ([]*Appointment, error)
	// UpdateStatus applies a compare-and-swap status change: the row must
	// still be Scheduled at fromVersion for the update to commit. A lost race
	// or terminal row yields ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, to Status, fromVersion int64) (*Appointment, error)
}

// InMemoryRepository keeps appointments in a map, for tests and local runs.
// The version check gives it the same conflict semantics as the Postgres
// implementation.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]*Appointment)}
}

// Create inserts a new Scheduled appointment.
func (r *InMemoryRepository) Create(ctx context.Context, probationerID string, scheduledAt time.Time) (*Appointment, error) {
	now := time.Now().UTC()
	appt := &Appointment{
		ID:            uuid.NewString(),
		ProbationerID: probationerID,
		ScheduledAt:   scheduledAt,
		Status:        StatusScheduled,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *appt
	r.rows[stored.ID] = &stored
	return appt, nil
}

// GetByID returns an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

// GetScheduled returns the earliest Scheduled appointment at or after from.
func (r *InMemoryRepository) GetScheduled(ctx context.Context, probationerID string, from time.Time) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Appointment
	for _, row := range r.rows {
		if row.ProbationerID != probationerID || row.Status != StatusScheduled {
			continue
		}
		if row.ScheduledAt.Before(from) {
			continue
		}
		if best == nil || row.ScheduledAt.Before(best.ScheduledAt) {
			best = row
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	copied := *best
	return &copied, nil
}

// ListMissed returns Missed appointments, most recent first.
func (r *InMemoryRepository) ListMissed(ctx context.Context, probationerID string) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missed []*Appointment
	for _, row := range r.rows {
		if row.ProbationerID == probationerID && row.Status == StatusMissed {
			copied := *row
			missed = append(missed, &copied)
		}
	}
	sort.Slice(missed, func(i, j int) bool {
		return missed[i].ScheduledAt.After(missed[j].ScheduledAt)
	})
	return missed, nil
}

// UpdateStatus commits the status change only if the row is still Scheduled
// at the expected version.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, to Status, fromVersion int64) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if row.Status != StatusScheduled || row.Version != fromVersion {
		return nil, ErrInvalidTransition
	}

	row.Status = to
	row.Version++
	row.UpdatedAt = time.Now().UTC()
	copied := *row
	return &copied, nil
}
