package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PolicyStore persists per-office policy overrides in Redis. Offices without
// an override get DefaultPolicy, so a missing or absent Redis never blocks
// scheduling decisions.
type PolicyStore struct {
	redis *redis.Client
}

// NewPolicyStore creates a policy store. A nil client is allowed and serves
// defaults only.
func NewPolicyStore(redisClient *redis.Client) *PolicyStore {
	return &PolicyStore{redis: redisClient}
}

func (s *PolicyStore) key(officeID string) string {
	return fmt.Sprintf("schedule:policy:%s", officeID)
}

// Get retrieves the office policy, returning the default when no override is
// stored. Stored overrides are validated before use; a corrupt or
// inconsistent override is an error, not a silent fallback.
func (s *PolicyStore) Get(ctx context.Context, officeID string) (Policy, error) {
	if s == nil || s.redis == nil {
		return DefaultPolicy(), nil
	}

	data, err := s.redis.Get(ctx, s.key(officeID)).Bytes()
	if err == redis.Nil {
		return DefaultPolicy(), nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("schedule: get policy: %w", err)
	}

	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("schedule: unmarshal policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("schedule: stored policy invalid: %w", err)
	}
	return p, nil
}

// Set saves an office policy override after validating it.
func (s *PolicyStore) Set(ctx context.Context, p Policy) error {
	if s == nil || s.redis == nil {
		return fmt.Errorf("schedule: policy store has no redis client")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("schedule: marshal policy: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(p.OfficeID), data, 0).Err(); err != nil {
		return fmt.Errorf("schedule: set policy: %w", err)
	}
	return nil
}
