package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAvailableIdempotentInsideWindow(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Already inside an open walk-in window: the exact instant comes back,
	// seconds included, so retries are side-effect free.
	from := time.Date(2026, time.January, 5, 10, 15, 42, 0, loc)
	got, err := NextAvailable(from, p, KindWalkIn)
	require.NoError(t, err)
	assert.True(t, got.Equal(from))

	// The warning band before lunch is still inside the morning window.
	from = time.Date(2026, time.January, 5, 11, 45, 0, 0, loc)
	got, err = NextAvailable(from, p, KindWalkIn)
	require.NoError(t, err)
	assert.True(t, got.Equal(from))
}

func TestNextAvailableWalkIn(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			"during lunch jumps to afternoon window",
			time.Date(2026, time.January, 5, 12, 30, 0, 0, loc),
			time.Date(2026, time.January, 5, 13, 0, 0, 0, loc),
		},
		{
			"before opening waits for opening",
			time.Date(2026, time.January, 5, 6, 0, 0, 0, loc),
			time.Date(2026, time.January, 5, 8, 0, 0, 0, loc),
		},
		{
			"after last slot rolls to next walk-in day",
			time.Date(2026, time.January, 5, 16, 45, 0, 0, loc),
			time.Date(2026, time.January, 7, 8, 0, 0, 0, loc),
		},
		{
			"court tuesday rolls to wednesday",
			time.Date(2026, time.January, 6, 10, 0, 0, 0, loc),
			time.Date(2026, time.January, 7, 8, 0, 0, 0, loc),
		},
		{
			"weekend rolls to monday",
			time.Date(2026, time.January, 3, 10, 0, 0, 0, loc),
			time.Date(2026, time.January, 5, 8, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextAvailable(tt.from, p, KindWalkIn)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestNextAvailableAfterHours(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Inside the evening window on the 1st Thursday: idempotent.
	from := time.Date(2026, time.January, 1, 18, 0, 0, 0, loc)
	got, err := NextAvailable(from, p, KindAfterHours)
	require.NoError(t, err)
	assert.True(t, got.Equal(from))

	// After the window closes, the 2nd Thursday is skipped entirely.
	from = time.Date(2026, time.January, 1, 20, 0, 0, 0, loc)
	got, err = NextAvailable(from, p, KindAfterHours)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, time.January, 15, 17, 0, 0, 0, loc)))

	// Daytime on an eligible Thursday waits for the evening window.
	from = time.Date(2026, time.January, 15, 10, 0, 0, 0, loc)
	got, err = NextAvailable(from, p, KindAfterHours)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, time.January, 15, 17, 0, 0, 0, loc)))
}

func TestNextAvailablePhoneCheckIn(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Friday during staffed hours: idempotent.
	from := time.Date(2026, time.January, 2, 9, 0, 0, 0, loc)
	got, err := NextAvailable(from, p, KindPhoneCheckIn)
	require.NoError(t, err)
	assert.True(t, got.Equal(from))

	// Saturday rolls to the following Friday.
	from = time.Date(2026, time.January, 3, 9, 0, 0, 0, loc)
	got, err = NextAvailable(from, p, KindPhoneCheckIn)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, time.January, 9, 8, 0, 0, 0, loc)))
}

func TestNextAvailableScanBound(t *testing.T) {
	// A policy with no eligible after-hours occurrences never yields an
	// evening slot; the scan must stop at its bound instead of spinning.
	p := DefaultPolicy()
	p.AfterHoursOccurrences = nil

	loc := chicago(t)
	_, err := NextAvailable(time.Date(2026, time.January, 1, 10, 0, 0, 0, loc), p, KindAfterHours)
	assert.ErrorIs(t, err, ErrNoSlotFound)
}

func TestNextAvailableFromUTCInstant(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Tuesday 01:00 UTC is Monday 19:00 in Chicago, past the last slot, so
	// the next opening is Wednesday morning local time.
	from := time.Date(2026, time.January, 6, 1, 0, 0, 0, time.UTC)
	got, err := NextAvailable(from, p, KindWalkIn)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, time.January, 7, 8, 0, 0, 0, loc)))
}
