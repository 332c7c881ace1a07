// Package schedule implements the calendar rule engine for the probation
// office: day classification, open-window computation, slot validation, and
// next-available-slot search. Everything in this package is a pure function
// of its inputs; callers pass the governing Policy explicitly so tests can
// exercise arbitrary policies without touching process-wide state.
package schedule

import (
	"fmt"
	"time"
)

// Policy is the office's standing calendar configuration. Clock fields are
// local times in "15:04" form, interpreted in Timezone. The zero value is not
// usable; start from DefaultPolicy and call Validate after any override.
type Policy struct {
	OfficeID string `json:"office_id"`

	// WalkInDays are the weekdays open for regular walk-in appointments.
	WalkInDays []time.Weekday `json:"walk_in_days"`
	// PhoneDay is the weekday reserved for phone reporting.
	PhoneDay time.Weekday `json:"phone_day"`

	Open     string `json:"open"`
	Close    string `json:"close"`
	LastSlot string `json:"last_slot"` // last bookable walk-in time

	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
	LunchCutoff string `json:"lunch_cutoff"` // arrive by this time to be seen before lunch

	AfterHoursStart string `json:"after_hours_start"`
	AfterHoursEnd   string `json:"after_hours_end"`
	// AfterHoursWeekday is the weekday eligible for evening slots.
	AfterHoursWeekday time.Weekday `json:"after_hours_weekday"`
	// AfterHoursOccurrences are the 1-indexed occurrences of AfterHoursWeekday
	// within a month that carry the evening window (counted from the 1st,
	// independent of week boundaries).
	AfterHoursOccurrences []int `json:"after_hours_occurrences"`

	Timezone string `json:"timezone"`
}

// DefaultPolicy returns the Tipton County office rules: walk-ins Monday and
// Wednesday 8:00-16:30 with a 12:00-13:00 lunch closure (arrive by 11:30),
// phone reporting Friday, and evening slots 17:00-19:30 on the 1st and 3rd
// Thursday of each month, all in Central Time.
func DefaultPolicy() Policy {
	return Policy{
		OfficeID:              "tipton",
		WalkInDays:            []time.Weekday{time.Monday, time.Wednesday},
		PhoneDay:              time.Friday,
		Open:                  "08:00",
		Close:                 "17:00",
		LastSlot:              "16:30",
		LunchStart:            "12:00",
		LunchEnd:              "13:00",
		LunchCutoff:           "11:30",
		AfterHoursStart:       "17:00",
		AfterHoursEnd:         "19:30",
		AfterHoursWeekday:     time.Thursday,
		AfterHoursOccurrences: []int{1, 3},
		Timezone:              "America/Chicago",
	}
}

// Location resolves the policy time zone, falling back to UTC when the
// identifier is unknown. Validate catches the bad identifier up front, so the
// fallback only matters for policies that skipped validation.
func (p Policy) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks internal consistency: parseable clock fields, lunch within
// office hours, last slot no later than close, and an after-hours window that
// does not overlap regular hours.
func (p Policy) Validate() error {
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("schedule: invalid timezone %q: %w", p.Timezone, err)
	}
	if len(p.WalkInDays) == 0 {
		return fmt.Errorf("schedule: policy has no walk-in days")
	}

	clocks := map[string]string{
		"open":              p.Open,
		"close":             p.Close,
		"last_slot":         p.LastSlot,
		"lunch_start":       p.LunchStart,
		"lunch_end":         p.LunchEnd,
		"lunch_cutoff":      p.LunchCutoff,
		"after_hours_start": p.AfterHoursStart,
		"after_hours_end":   p.AfterHoursEnd,
	}
	parsed := make(map[string]int, len(clocks))
	for name, value := range clocks {
		m, err := parseClock(value)
		if err != nil {
			return fmt.Errorf("schedule: invalid %s %q: %w", name, value, err)
		}
		parsed[name] = m
	}

	if parsed["lunch_start"] < parsed["open"] || parsed["lunch_end"] > parsed["close"] {
		return fmt.Errorf("schedule: lunch window %s-%s outside office hours %s-%s",
			p.LunchStart, p.LunchEnd, p.Open, p.Close)
	}
	if parsed["lunch_cutoff"] > parsed["lunch_start"] {
		return fmt.Errorf("schedule: lunch cutoff %s after lunch start %s", p.LunchCutoff, p.LunchStart)
	}
	if parsed["last_slot"] > parsed["close"] {
		return fmt.Errorf("schedule: last slot %s after close %s", p.LastSlot, p.Close)
	}
	if parsed["after_hours_start"] < parsed["close"] {
		return fmt.Errorf("schedule: after-hours start %s overlaps regular hours ending %s",
			p.AfterHoursStart, p.Close)
	}
	if parsed["after_hours_end"] <= parsed["after_hours_start"] {
		return fmt.Errorf("schedule: after-hours window %s-%s is empty",
			p.AfterHoursStart, p.AfterHoursEnd)
	}
	for _, n := range p.AfterHoursOccurrences {
		if n < 1 || n > 5 {
			return fmt.Errorf("schedule: after-hours occurrence %d out of range 1-5", n)
		}
	}
	return nil
}

// IsWalkInDay reports whether the weekday is open for walk-ins.
func (p Policy) IsWalkInDay(d time.Weekday) bool {
	for _, w := range p.WalkInDays {
		if w == d {
			return true
		}
	}
	return false
}

// parseClock converts a "15:04" string to minutes since midnight.
func parseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockMinutes returns t's local wall clock as minutes since midnight.
func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// at anchors a "15:04" clock value onto d's calendar date in d's location.
// The clock value must already be validated.
func at(d time.Time, hm string) time.Time {
	c, _ := time.Parse("15:04", hm)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, d.Location())
}
