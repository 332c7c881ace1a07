package schedule

import "time"

// RequestKind is the category of appointment a caller is asking about.
type RequestKind string

const (
	KindWalkIn           RequestKind = "walk_in"
	KindAfterHours       RequestKind = "after_hours"
	KindPhoneCheckIn     RequestKind = "phone_check_in"
	KindMissedReschedule RequestKind = "missed_reschedule"
)

// ParseRequestKind maps an external string onto a known RequestKind. Inputs
// arrive from HTTP bodies and operator tooling; an unknown string reports
// false rather than leaking through as a kind the engine would silently
// treat as a walk-in.
func ParseRequestKind(s string) (RequestKind, bool) {
	switch k := RequestKind(s); k {
	case KindWalkIn, KindAfterHours, KindPhoneCheckIn, KindMissedReschedule:
		return k, true
	}
	return "", false
}

// Outcome is the terminal result of validating a candidate slot.
type Outcome string

const (
	Accepted            Outcome = "accepted"
	AcceptedWithWarning Outcome = "accepted_with_warning"
	Rejected            Outcome = "rejected"
)

// Reason codes are stable message keys. The conversational layer owns the
// prose; the engine only emits the key plus structured parameters.
const (
	ReasonDayNotAvailable      = "day-not-available"
	ReasonBeforeOpening        = "before-opening"
	ReasonLunchClosed          = "lunch-closed"
	ReasonLunchApproaching     = "lunch-approaching"
	ReasonAfterLastSlot        = "after-last-slot"
	ReasonAfterHoursIneligible = "after-hours-ineligible"
	ReasonAfterHoursWindow     = "after-hours-window"
	ReasonNotPhoneDay          = "not-phone-day"
	ReasonMissedGraceExpired   = "missed-grace-expired"
	ReasonAlreadyBooked        = "already-booked"
	ReasonNoMissedAppointment  = "no-missed-appointment"
)

// Verdict is the structured decision for a candidate slot.
type Verdict struct {
	Outcome Outcome           `json:"outcome"`
	Reason  string            `json:"reason,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Rejected reports whether the verdict refuses the candidate.
func (v Verdict) Rejected() bool { return v.Outcome == Rejected }

func accept() Verdict { return Verdict{Outcome: Accepted} }

func warn(reason string, params map[string]string) Verdict {
	return Verdict{Outcome: AcceptedWithWarning, Reason: reason, Params: params}
}

func reject(reason string, params map[string]string) Verdict {
	return Verdict{Outcome: Rejected, Reason: reason, Params: params}
}

const dateParamLayout = "2006-01-02"

// Validate applies the office calendar rules to a candidate instant for the
// given request kind. Rules run in order; the first matching terminal rule
// wins. A rejection is never downgraded to a warning: times strictly inside
// the lunch closure are refused, only the 11:30-12:00 approach band warns.
func Validate(candidate time.Time, p Policy, kind RequestKind) Verdict {
	local := candidate.In(p.Location())
	day := ClassifyDay(local, p)
	m := clockMinutes(local)

	switch kind {
	case KindWalkIn, KindMissedReschedule:
		return validateWalkIn(local, day, m, p)
	case KindAfterHours:
		return validateAfterHours(local, day, m, p)
	case KindPhoneCheckIn:
		if day != DayPhoneOnly {
			next := nextPhoneDay(local, p)
			return warn(ReasonNotPhoneDay, map[string]string{
				"phone_day":      p.PhoneDay.String(),
				"next_phone_day": next.Format(dateParamLayout),
			})
		}
		return accept()
	default:
		return validateWalkIn(local, day, m, p)
	}
}

func validateWalkIn(local time.Time, day DayType, m int, p Policy) Verdict {
	if day != DayWalkIn {
		params := map[string]string{}
		if next, ok := NextWalkInDate(local, p); ok {
			params["next_walk_in_date"] = next.Format(dateParamLayout)
		}
		return reject(ReasonDayNotAvailable, params)
	}

	open, _ := parseClock(p.Open)
	closeM, _ := parseClock(p.Close)
	lastSlot, _ := parseClock(p.LastSlot)
	lunchStart, _ := parseClock(p.LunchStart)
	lunchEnd, _ := parseClock(p.LunchEnd)
	cutoff, _ := parseClock(p.LunchCutoff)

	if m < open {
		return reject(ReasonBeforeOpening, map[string]string{"open": p.Open})
	}
	if m >= lunchStart && m < lunchEnd {
		return reject(ReasonLunchClosed, map[string]string{
			"lunch_start": p.LunchStart,
			"lunch_end":   p.LunchEnd,
			"cutoff":      p.LunchCutoff,
		})
	}
	if m > lastSlot || m >= closeM {
		return reject(ReasonAfterLastSlot, map[string]string{"last_slot": p.LastSlot})
	}
	if m > cutoff && m < lunchStart {
		// Approach-to-lunch band: booking proceeds, the caller is told to
		// arrive before the cutoff next time.
		return warn(ReasonLunchApproaching, map[string]string{
			"cutoff":      p.LunchCutoff,
			"lunch_start": p.LunchStart,
			"lunch_end":   p.LunchEnd,
		})
	}
	return accept()
}

func validateAfterHours(local time.Time, day DayType, m int, p Policy) Verdict {
	if day != DayAfterHours {
		params := map[string]string{}
		if next, ok := NextAfterHoursDate(local, p); ok {
			params["next_eligible_date"] = next.Format(dateParamLayout)
		}
		return reject(ReasonAfterHoursIneligible, params)
	}
	start, _ := parseClock(p.AfterHoursStart)
	end, _ := parseClock(p.AfterHoursEnd)
	if m < start || m > end {
		return reject(ReasonAfterHoursWindow, map[string]string{
			"after_hours_start": p.AfterHoursStart,
			"after_hours_end":   p.AfterHoursEnd,
		})
	}
	return accept()
}

// GraceEnd returns the exclusive end of the no-approval reschedule window for
// an appointment missed at missedOn: midnight on the first day of the month
// after the missed date, in the policy time zone.
func GraceEnd(missedOn time.Time, p Policy) time.Time {
	return firstOfNextMonth(missedOn.In(p.Location()))
}

// ValidateMissedReschedule validates a reschedule candidate for an
// appointment missed on missedOn. The grace bound runs through the end of the
// calendar month containing the missed date; on or after the first of the
// following month the reschedule requires officer approval and is refused
// here regardless of the candidate's weekday. Within the grace month the
// candidate must satisfy the regular walk-in rules.
func ValidateMissedReschedule(candidate, missedOn time.Time, p Policy) Verdict {
	loc := p.Location()
	graceEnd := GraceEnd(missedOn, p)
	if !candidate.In(loc).Before(graceEnd) {
		return reject(ReasonMissedGraceExpired, map[string]string{
			"missed_on": missedOn.In(loc).Format(dateParamLayout),
			"grace_end": graceEnd.AddDate(0, 0, -1).Format(dateParamLayout),
		})
	}
	return Validate(candidate, p, KindMissedReschedule)
}

func nextPhoneDay(after time.Time, p Policy) time.Time {
	local := after.In(p.Location())
	for i := 1; i <= walkInScanDays; i++ {
		d := local.AddDate(0, 0, i)
		if d.Weekday() == p.PhoneDay {
			return midnight(d)
		}
	}
	return midnight(local)
}
