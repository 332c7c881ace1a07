package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWalkInMonday(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	mondayAt := func(h, m int) time.Time {
		return time.Date(2026, time.January, 5, h, m, 0, 0, loc)
	}

	tests := []struct {
		name      string
		candidate time.Time
		outcome   Outcome
		reason    string
	}{
		{"mid morning", mondayAt(9, 0), Accepted, ""},
		{"at lunch cutoff", mondayAt(11, 30), Accepted, ""},
		{"before cutoff", mondayAt(11, 29), Accepted, ""},
		{"approach band", mondayAt(11, 31), AcceptedWithWarning, ReasonLunchApproaching},
		{"late approach band", mondayAt(11, 59), AcceptedWithWarning, ReasonLunchApproaching},
		{"lunch start", mondayAt(12, 0), Rejected, ReasonLunchClosed},
		{"inside lunch", mondayAt(12, 30), Rejected, ReasonLunchClosed},
		{"lunch end", mondayAt(13, 0), Accepted, ""},
		{"last slot", mondayAt(16, 30), Accepted, ""},
		{"past last slot", mondayAt(16, 31), Rejected, ReasonAfterLastSlot},
		{"after close", mondayAt(17, 30), Rejected, ReasonAfterLastSlot},
		{"before opening", mondayAt(7, 30), Rejected, ReasonBeforeOpening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.candidate, p, KindWalkIn)
			assert.Equal(t, tt.outcome, v.Outcome)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestValidateWalkInClosedDays(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Tuesday is a court day; the rejection carries the next walk-in date.
	v := Validate(time.Date(2026, time.January, 6, 10, 0, 0, 0, loc), p, KindWalkIn)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonDayNotAvailable, v.Reason)
	assert.Equal(t, "2026-01-07", v.Params["next_walk_in_date"])

	// Friday walk-ins are refused the same way even though the office is staffed.
	v = Validate(time.Date(2026, time.January, 2, 10, 0, 0, 0, loc), p, KindWalkIn)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonDayNotAvailable, v.Reason)
	assert.Equal(t, "2026-01-05", v.Params["next_walk_in_date"])

	// An after-hours Thursday evening does not admit walk-ins either.
	v = Validate(time.Date(2026, time.January, 1, 18, 0, 0, 0, loc), p, KindWalkIn)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonDayNotAvailable, v.Reason)
}

func TestValidateAfterHours(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// 1st Thursday at 6 PM is inside the evening window.
	v := Validate(time.Date(2026, time.January, 1, 18, 0, 0, 0, loc), p, KindAfterHours)
	assert.Equal(t, Accepted, v.Outcome)

	// Window boundaries are inclusive.
	v = Validate(time.Date(2026, time.January, 1, 17, 0, 0, 0, loc), p, KindAfterHours)
	assert.Equal(t, Accepted, v.Outcome)
	v = Validate(time.Date(2026, time.January, 1, 19, 30, 0, 0, loc), p, KindAfterHours)
	assert.Equal(t, Accepted, v.Outcome)

	// Daytime on an eligible Thursday is outside the window.
	v = Validate(time.Date(2026, time.January, 1, 16, 0, 0, 0, loc), p, KindAfterHours)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonAfterHoursWindow, v.Reason)

	// 2nd Thursday is ineligible; the rejection names the 3rd Thursday.
	v = Validate(time.Date(2026, time.January, 8, 18, 0, 0, 0, loc), p, KindAfterHours)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonAfterHoursIneligible, v.Reason)
	assert.Equal(t, "2026-01-15", v.Params["next_eligible_date"])

	// Non-Thursdays are ineligible outright.
	v = Validate(time.Date(2026, time.January, 5, 18, 0, 0, 0, loc), p, KindAfterHours)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonAfterHoursIneligible, v.Reason)
}

func TestValidatePhoneCheckIn(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	v := Validate(time.Date(2026, time.January, 2, 9, 0, 0, 0, loc), p, KindPhoneCheckIn)
	assert.Equal(t, Accepted, v.Outcome)

	// A check-in on the wrong day is processed anyway, but flagged so the
	// conversational layer can mention the canonical reporting day.
	v = Validate(time.Date(2026, time.January, 5, 9, 0, 0, 0, loc), p, KindPhoneCheckIn)
	require.Equal(t, AcceptedWithWarning, v.Outcome)
	assert.Equal(t, ReasonNotPhoneDay, v.Reason)
	assert.Equal(t, "2026-01-09", v.Params["next_phone_day"])
}

func TestValidateMissedReschedule(t *testing.T) {
	loc := chicago(t)
	p := DefaultPolicy()

	// Missed on the 28th of a 31-day month.
	missedOn := time.Date(2026, time.August, 28, 9, 0, 0, 0, loc)

	// Monday the 31st is still inside the grace month.
	v := ValidateMissedReschedule(time.Date(2026, time.August, 31, 10, 0, 0, 0, loc), missedOn, p)
	assert.Equal(t, Accepted, v.Outcome)

	// The 1st of the following month is out of grace regardless of weekday.
	v = ValidateMissedReschedule(time.Date(2026, time.September, 1, 10, 0, 0, 0, loc), missedOn, p)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonMissedGraceExpired, v.Reason)
	assert.Equal(t, "2026-08-31", v.Params["grace_end"])

	// So is a walk-in Wednesday in the next month.
	v = ValidateMissedReschedule(time.Date(2026, time.September, 2, 10, 0, 0, 0, loc), missedOn, p)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonMissedGraceExpired, v.Reason)

	// Inside the grace month the regular walk-in rules still apply.
	v = ValidateMissedReschedule(time.Date(2026, time.August, 26, 12, 30, 0, 0, loc), missedOn, p)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonLunchClosed, v.Reason)

	v = ValidateMissedReschedule(time.Date(2026, time.August, 29, 10, 0, 0, 0, loc), missedOn, p)
	require.Equal(t, Rejected, v.Outcome)
	assert.Equal(t, ReasonDayNotAvailable, v.Reason, "saturday inside grace is still not a walk-in day")
}

func TestParseRequestKind(t *testing.T) {
	tests := []struct {
		in   string
		kind RequestKind
		ok   bool
	}{
		{"walk_in", KindWalkIn, true},
		{"after_hours", KindAfterHours, true},
		{"phone_check_in", KindPhoneCheckIn, true},
		{"missed_reschedule", KindMissedReschedule, true},
		{"", "", false},
		{"walkin", "", false},
		{"WALK_IN", "", false},
	}
	for _, tt := range tests {
		t.Run("input "+tt.in, func(t *testing.T) {
			kind, ok := ParseRequestKind(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
