package schedule

import (
	"errors"
	"time"
)

// Scan bounds for the next-slot search. The policy always contains eligible
// days, so hitting a bound means the policy itself is broken; the error is
// operator-facing, never read back to a caller.
const (
	walkInScanDays     = 31
	afterHoursScanDays = 62
)

// ErrNoSlotFound is returned when the forward scan exhausts its bound without
// finding a bookable window. Treated as a configuration error.
var ErrNoSlotFound = errors.New("schedule: no slot found within scan bound")

// NextAvailable returns the earliest instant at or after from that the
// validator would accept for the given request kind. The search is idempotent:
// when from already falls inside a qualifying open window, from itself is
// returned unchanged, so a caller retrying after a dropped connection gets
// the same answer.
func NextAvailable(from time.Time, p Policy, kind RequestKind) (time.Time, error) {
	local := from.In(p.Location())
	limit := walkInScanDays
	if kind == KindAfterHours {
		limit = afterHoursScanDays
	}

	for i := 0; i <= limit; i++ {
		day := local.AddDate(0, 0, i)
		for _, w := range windowsForKind(day, p, kind) {
			if w.Contains(local) {
				return from, nil
			}
			if !w.Start.Before(local) {
				return w.Start, nil
			}
		}
	}
	return time.Time{}, ErrNoSlotFound
}

// windowsForKind maps a request kind onto the day's qualifying windows.
// Phone check-ins have no bookable walk-in interval; their window is the
// staffed office hours on the phone-reporting day.
func windowsForKind(day time.Time, p Policy, kind RequestKind) []Window {
	switch kind {
	case KindAfterHours:
		if ClassifyDay(day, p) != DayAfterHours {
			return nil
		}
		return WindowsFor(day, p)
	case KindPhoneCheckIn:
		if ClassifyDay(day, p) != DayPhoneOnly {
			return nil
		}
		return []Window{{Start: at(day.In(p.Location()), p.Open), End: at(day.In(p.Location()), p.Close), IncludesEnd: false}}
	default:
		if ClassifyDay(day, p) != DayWalkIn {
			return nil
		}
		return WindowsFor(day, p)
	}
}
