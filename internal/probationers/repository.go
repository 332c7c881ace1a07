package probationers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the storage interface for probationer records.
type Repository interface {
	// FindByPhone returns the active record whose phone number matches,
	// after normalization. Inactive records never match.
	FindByPhone(ctx context.Context, phone string) (*Probationer, error)
	GetByID(ctx context.Context, id string) (*Probationer, error)
}

// InMemoryRepository keeps records in a map, for tests and local runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Probationer
	byPhone map[string]string
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*Probationer),
		byPhone: make(map[string]string),
	}
}

// Add registers a record, assigning an id when absent.
func (r *InMemoryRepository) Add(p Probationer) *Probationer {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := p
	r.byID[stored.ID] = &stored
	r.byPhone[NormalizePhone(stored.Phone)] = stored.ID
	return &stored
}

// FindByPhone returns the active record for a phone number.
func (r *InMemoryRepository) FindByPhone(ctx context.Context, phone string) (*Probationer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[NormalizePhone(phone)]
	if !ok {
		return nil, ErrNotFound
	}
	p := r.byID[id]
	if p == nil || !p.Active {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// GetByID returns a record by id regardless of active flag.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Probationer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}
