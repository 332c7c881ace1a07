// Package voice is the decision surface consumed by the conversational/voice
// layer. Every operation takes a caller's phone number and returns structured
// results; rendering them into speech is the voice gateway's job, not ours.
package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tiptonco/probation-scheduler/internal/appointments"
	"github.com/tiptonco/probation-scheduler/internal/observability/metrics"
	"github.com/tiptonco/probation-scheduler/internal/probationers"
	"github.com/tiptonco/probation-scheduler/internal/schedule"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

// PaymentNotice is the office's standing fee information, surfaced as data so
// the voice layer can phrase it. Payment is collected in cash but a caller is
// seen regardless.
type PaymentNotice struct {
	AmountCents      int    `json:"amount_cents"`
	Method           string `json:"method"`
	RequiredToBeSeen bool   `json:"required_to_be_seen"`
}

// StandingPaymentNotice is the current fee schedule.
func StandingPaymentNotice() PaymentNotice {
	return PaymentNotice{AmountCents: 7500, Method: "cash", RequiredToBeSeen: false}
}

// CallerContext is the greeting bundle for a recognized caller.
type CallerContext struct {
	ProbationerID   string                    `json:"probationer_id"`
	FullName        string                    `json:"full_name"`
	FirstName       string                    `json:"first_name"`
	CaseNumber      string                    `json:"case_number"`
	RiskLevel       string                    `json:"risk_level"`
	Today           schedule.DayType          `json:"today"`
	NextAppointment *appointments.Appointment `json:"next_appointment,omitempty"`
	MissedThisMonth bool                      `json:"missed_this_month"`
	// RescheduleDates are the walk-in dates left in the current month, the
	// concrete options a caller with a missed appointment can choose from.
	RescheduleDates []time.Time   `json:"reschedule_dates,omitempty"`
	Payment         PaymentNotice `json:"payment"`
}

// Service composes the caller resolver, appointment storage, and the
// calendar rule engine behind the operations the voice gateway calls. All
// I/O happens here at the edges; the schedule package stays pure.
type Service struct {
	probationers probationers.Repository
	appointments appointments.Repository
	transitioner *appointments.Transitioner
	policies     *schedule.PolicyStore
	officeID     string
	logger       *logging.Logger
	metrics      *metrics.SchedulingMetrics
	tracer       trace.Tracer
	now          func() time.Time
}

// NewService wires the voice decision service. A nil policy store serves
// DefaultPolicy.
func NewService(
	probRepo probationers.Repository,
	apptRepo appointments.Repository,
	transitioner *appointments.Transitioner,
	policies *schedule.PolicyStore,
	officeID string,
	logger *logging.Logger,
	m *metrics.SchedulingMetrics,
) *Service {
	if probRepo == nil {
		panic("voice: probationer repository cannot be nil")
	}
	if apptRepo == nil {
		panic("voice: appointment repository cannot be nil")
	}
	if transitioner == nil {
		panic("voice: transitioner cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		probationers: probRepo,
		appointments: apptRepo,
		transitioner: transitioner,
		policies:     policies,
		officeID:     officeID,
		logger:       logger,
		metrics:      m,
		tracer:       otel.Tracer("probation.internal.voice"),
		now:          time.Now,
	}
}

// WithClock overrides the service clock. Tests pin "now" with this.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) policy(ctx context.Context) (schedule.Policy, error) {
	p, err := s.policies.Get(ctx, s.officeID)
	if err != nil {
		return schedule.Policy{}, err
	}
	return p, nil
}

// ValidateCandidate resolves the caller and runs the slot rules against a
// candidate instant.
func (s *Service) ValidateCandidate(ctx context.Context, phone string, candidate time.Time, kind schedule.RequestKind) (schedule.Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "voice.validate_candidate")
	defer span.End()
	span.SetAttributes(attribute.String("request.kind", string(kind)))

	prob, err := s.probationers.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return schedule.Verdict{}, err
	}
	p, err := s.policy(ctx)
	if err != nil {
		span.RecordError(err)
		return schedule.Verdict{}, err
	}

	verdict, err := s.validate(ctx, prob.ID, candidate, p, kind)
	if err != nil {
		span.RecordError(err)
		return schedule.Verdict{}, err
	}
	s.metrics.ObserveVerdict(string(kind), string(verdict.Outcome), verdict.Reason)
	span.SetAttributes(attribute.String("verdict.outcome", string(verdict.Outcome)))
	return verdict, nil
}

// validate routes a candidate through the right rule set. MissedReschedule
// needs the missed appointment's date for the grace bound, so it consults
// storage; every other kind is a pure rule-engine call.
func (s *Service) validate(ctx context.Context, probationerID string, candidate time.Time, p schedule.Policy, kind schedule.RequestKind) (schedule.Verdict, error) {
	if kind != schedule.KindMissedReschedule {
		return schedule.Validate(candidate, p, kind), nil
	}

	missed, err := s.appointments.ListMissed(ctx, probationerID)
	if err != nil {
		return schedule.Verdict{}, err
	}
	if len(missed) == 0 {
		return schedule.Verdict{
			Outcome: schedule.Rejected,
			Reason:  schedule.ReasonNoMissedAppointment,
		}, nil
	}
	// Most recent missed appointment governs the grace month.
	return schedule.ValidateMissedReschedule(candidate, missed[0].ScheduledAt, p), nil
}

// SuggestNextSlot returns the earliest instant the validator would accept
// for the caller, at or after from. A zero from means "from now".
func (s *Service) SuggestNextSlot(ctx context.Context, phone string, from time.Time, kind schedule.RequestKind) (time.Time, error) {
	ctx, span := s.tracer.Start(ctx, "voice.suggest_next_slot")
	defer span.End()
	span.SetAttributes(attribute.String("request.kind", string(kind)))

	if _, err := s.probationers.FindByPhone(ctx, phone); err != nil {
		span.RecordError(err)
		return time.Time{}, err
	}
	p, err := s.policy(ctx)
	if err != nil {
		span.RecordError(err)
		return time.Time{}, err
	}
	if from.IsZero() {
		from = s.now()
	}

	slot, err := schedule.NextAvailable(from, p, kind)
	if err != nil {
		s.logger.Error("next-slot scan exhausted, policy likely misconfigured",
			"office_id", s.officeID,
			"kind", kind,
			"error", err,
		)
		span.RecordError(err)
		return time.Time{}, err
	}
	s.metrics.ObserveFinderScan(string(kind), scanDepthDays(from, slot, p))
	return slot, nil
}

// Book validates the candidate and, on acceptance, creates the Scheduled
// row. A caller with an existing Scheduled appointment on the candidate's
// local date is refused; the rule engine never sees storage, so the
// duplicate check lives here.
func (s *Service) Book(ctx context.Context, phone string, candidate time.Time, kind schedule.RequestKind) (*appointments.Appointment, schedule.Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "voice.book")
	defer span.End()
	span.SetAttributes(attribute.String("request.kind", string(kind)))

	prob, err := s.probationers.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}
	p, err := s.policy(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}

	verdict, err := s.validate(ctx, prob.ID, candidate, p, kind)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}
	if verdict.Rejected() {
		s.metrics.ObserveVerdict(string(kind), string(verdict.Outcome), verdict.Reason)
		return nil, verdict, nil
	}

	// Scan from the candidate's own midnight, not from now: a caller who
	// already holds an earlier Scheduled appointment must still be refused a
	// second booking on the candidate's date.
	if existing, err := s.appointments.GetScheduled(ctx, prob.ID, startOfLocalDay(candidate, p)); err == nil {
		if sameLocalDate(existing.ScheduledAt, candidate, p) {
			verdict = schedule.Verdict{
				Outcome: schedule.Rejected,
				Reason:  schedule.ReasonAlreadyBooked,
				Params: map[string]string{
					"scheduled_at": existing.ScheduledAt.In(p.Location()).Format(time.RFC3339),
				},
			}
			s.metrics.ObserveVerdict(string(kind), string(verdict.Outcome), verdict.Reason)
			return nil, verdict, nil
		}
	} else if !errors.Is(err, appointments.ErrNotFound) {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}

	appt, err := s.appointments.Create(ctx, prob.ID, candidate)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, fmt.Errorf("voice: create appointment: %w", err)
	}
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"probationer_id", prob.ID,
		"kind", kind,
		"scheduled_at", appt.ScheduledAt,
	)
	s.metrics.ObserveVerdict(string(kind), string(verdict.Outcome), verdict.Reason)
	return appt, verdict, nil
}

// RescheduleMissed validates a candidate against the caller's most recent
// missed appointment and books it when accepted.
func (s *Service) RescheduleMissed(ctx context.Context, phone string, candidate time.Time) (*appointments.Appointment, schedule.Verdict, error) {
	return s.Book(ctx, phone, candidate, schedule.KindMissedReschedule)
}

// RecordCheckIn completes the caller's appointment for the current local
// day. On the phone-reporting day this succeeds without further validation;
// on any other day the returned verdict carries a not-phone-day warning but
// the check-in is still recorded. No Scheduled appointment today means
// ErrNoCheckInDue.
func (s *Service) RecordCheckIn(ctx context.Context, phone string, now time.Time) (*appointments.Appointment, schedule.Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "voice.record_check_in")
	defer span.End()

	prob, err := s.probationers.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}
	p, err := s.policy(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}
	if now.IsZero() {
		now = s.now()
	}

	local := now.In(p.Location())
	appt, err := s.appointments.GetScheduled(ctx, prob.ID, startOfLocalDay(now, p))
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			return nil, schedule.Verdict{}, ErrNoCheckInDue
		}
		span.RecordError(err)
		return nil, schedule.Verdict{}, err
	}
	if !sameLocalDate(appt.ScheduledAt, local, p) {
		return nil, schedule.Verdict{}, ErrNoCheckInDue
	}

	verdict := schedule.Validate(now, p, schedule.KindPhoneCheckIn)
	s.metrics.ObserveVerdict(string(schedule.KindPhoneCheckIn), string(verdict.Outcome), verdict.Reason)

	updated, err := s.transitioner.Transition(ctx, appt, appointments.StatusCompleted)
	if err != nil {
		span.RecordError(err)
		return nil, verdict, err
	}
	return updated, verdict, nil
}

// CallerContext assembles the greeting bundle for a recognized caller.
func (s *Service) CallerContext(ctx context.Context, phone string, now time.Time) (*CallerContext, error) {
	ctx, span := s.tracer.Start(ctx, "voice.caller_context")
	defer span.End()

	prob, err := s.probationers.FindByPhone(ctx, phone)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p, err := s.policy(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if now.IsZero() {
		now = s.now()
	}

	cc := &CallerContext{
		ProbationerID: prob.ID,
		FullName:      prob.FullName,
		FirstName:     prob.FirstName(),
		CaseNumber:    prob.CaseNumber,
		RiskLevel:     prob.RiskLevel,
		Today:         schedule.ClassifyDay(now, p),
		Payment:       StandingPaymentNotice(),
	}

	if next, err := s.appointments.GetScheduled(ctx, prob.ID, now); err == nil {
		cc.NextAppointment = next
	} else if !errors.Is(err, appointments.ErrNotFound) {
		span.RecordError(err)
		return nil, err
	}

	missed, err := s.appointments.ListMissed(ctx, prob.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, m := range missed {
		if appointments.RescheduleEligible(m, now, p) {
			cc.MissedThisMonth = true
			cc.RescheduleDates = schedule.WalkInDatesThroughMonth(now, p)
			break
		}
	}
	return cc, nil
}

// scanDepthDays counts the whole local days between from and the found slot,
// the quantity the finder histogram tracks.
func scanDepthDays(from, slot time.Time, p schedule.Policy) int {
	loc := p.Location()
	a := from.In(loc)
	b := slot.In(loc)
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

func sameLocalDate(a, b time.Time, p schedule.Policy) bool {
	loc := p.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func startOfLocalDay(t time.Time, p schedule.Policy) time.Time {
	local := t.In(p.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location())
}
