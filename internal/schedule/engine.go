package schedule

import "time"

// DayType classifies a calendar date under the office policy.
type DayType string

const (
	// DayWalkIn accepts regular walk-in appointments.
	DayWalkIn DayType = "walk_in"
	// DayCourtOnly accepts no appointments (court obligations, weekends).
	DayCourtOnly DayType = "court_only"
	// DayPhoneOnly is reserved for phone reporting; no walk-in scheduling.
	DayPhoneOnly DayType = "phone_only"
	// DayAfterHours is an after-hours-eligible evening. Daytime walk-ins are
	// still refused; the evening window is additive.
	DayAfterHours DayType = "after_hours"
	// DayIneligibleThursday is the after-hours weekday on an occurrence that
	// does not carry the evening window. Kept distinct from DayCourtOnly so
	// callers can report the next eligible date instead of a generic refusal.
	DayIneligibleThursday DayType = "ineligible_thursday"
)

// WeekdayOccurrence returns which occurrence of its weekday the date is
// within its month, 1-indexed from the 1st and independent of week
// boundaries. The 1st through 7th are occurrence 1, the 8th through 14th
// occurrence 2, and so on.
func WeekdayOccurrence(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// ClassifyDay determines the scheduling day type for the date containing the
// given instant. The instant is converted to the policy time zone before any
// weekday or clock comparison.
func ClassifyDay(t time.Time, p Policy) DayType {
	local := t.In(p.Location())
	wd := local.Weekday()

	if p.IsWalkInDay(wd) {
		return DayWalkIn
	}
	if wd == p.PhoneDay {
		return DayPhoneOnly
	}
	if wd == p.AfterHoursWeekday {
		n := WeekdayOccurrence(local)
		for _, want := range p.AfterHoursOccurrences {
			if n == want {
				return DayAfterHours
			}
		}
		return DayIneligibleThursday
	}
	return DayCourtOnly
}

// Window is an interval of bookable local time within a single day.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// IncludesEnd reports whether End itself is bookable. Morning walk-in
	// windows exclude their end (the office breaks at noon sharp); afternoon
	// and after-hours windows include theirs, which is the last bookable slot.
	IncludesEnd bool `json:"includes_end"`
}

// Contains reports whether the instant falls inside the window, at minute
// resolution in the window's own location.
func (w Window) Contains(t time.Time) bool {
	t = t.In(w.Start.Location())
	if !sameDate(t, w.Start) {
		return false
	}
	m := clockMinutes(t)
	start, end := clockMinutes(w.Start), clockMinutes(w.End)
	if m < start {
		return false
	}
	if m < end {
		return true
	}
	return w.IncludesEnd && m == end
}

// WindowsFor computes the ordered bookable walk-in intervals for the date
// containing the given instant. Walk-in days yield two windows split by the
// lunch closure; after-hours-eligible days yield exactly the evening window;
// every other day type yields none. A candidate at or after lunch start but
// before lunch end falls in neither morning nor afternoon window.
func WindowsFor(t time.Time, p Policy) []Window {
	local := t.In(p.Location())
	switch ClassifyDay(local, p) {
	case DayWalkIn:
		return []Window{
			{Start: at(local, p.Open), End: at(local, p.LunchStart), IncludesEnd: false},
			{Start: at(local, p.LunchEnd), End: at(local, p.LastSlot), IncludesEnd: true},
		}
	case DayAfterHours:
		return []Window{
			{Start: at(local, p.AfterHoursStart), End: at(local, p.AfterHoursEnd), IncludesEnd: true},
		}
	default:
		return nil
	}
}

// NextWalkInDate returns the first date strictly after the given instant's
// date that classifies as a walk-in day, searching up to 31 days out.
func NextWalkInDate(after time.Time, p Policy) (time.Time, bool) {
	return nextDayOfType(after, p, DayWalkIn, walkInScanDays)
}

// NextAfterHoursDate returns the first date strictly after the given
// instant's date that is after-hours eligible, searching up to 62 days out.
func NextAfterHoursDate(after time.Time, p Policy) (time.Time, bool) {
	return nextDayOfType(after, p, DayAfterHours, afterHoursScanDays)
}

func nextDayOfType(after time.Time, p Policy, want DayType, limit int) (time.Time, bool) {
	local := after.In(p.Location())
	for i := 1; i <= limit; i++ {
		d := local.AddDate(0, 0, i)
		if ClassifyDay(d, p) == want {
			return midnight(d), true
		}
	}
	return time.Time{}, false
}

// WalkInDatesThroughMonth returns the walk-in dates remaining in the month
// containing from, starting strictly after from's date. Used to offer a
// caller the concrete reschedule options left in their grace month.
func WalkInDatesThroughMonth(from time.Time, p Policy) []time.Time {
	local := from.In(p.Location())
	end := firstOfNextMonth(local)

	var dates []time.Time
	for d := midnight(local).AddDate(0, 0, 1); d.Before(end); d = d.AddDate(0, 0, 1) {
		if ClassifyDay(d, p) == DayWalkIn {
			dates = append(dates, d)
		}
	}
	return dates
}

// firstOfNextMonth returns midnight on the first day of the month following
// the instant's month, in the instant's location.
func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
