package appointments

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tiptonco/probation-scheduler/internal/observability/metrics"
	"github.com/tiptonco/probation-scheduler/internal/schedule"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

var transitionTracer = otel.Tracer("probation.internal.appointments")

// Transitioner applies status changes to appointments. It is the only writer
// of appointment status; every change goes through the repository's
// per-record compare-and-swap, so two concurrent transitions on the same
// appointment cannot both succeed.
type Transitioner struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewTransitioner creates a transitioner over the given repository.
func NewTransitioner(repo Repository, logger *logging.Logger, m *metrics.SchedulingMetrics) *Transitioner {
	if repo == nil {
		panic("appointments: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Transitioner{repo: repo, logger: logger, metrics: m}
}

// Transition moves the appointment to a terminal status. The read below is
// advisory; the repository's version check is what actually serializes
// writers, so a transition that lost the race comes back as
// ErrInvalidTransition even if the local copy still looked Scheduled.
func (t *Transitioner) Transition(ctx context.Context, appt *Appointment, to Status) (*Appointment, error) {
	ctx, span := transitionTracer.Start(ctx, "appointments.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", appt.ID),
		attribute.String("appointment.to_status", string(to)),
	)

	if !to.Terminal() {
		err := fmt.Errorf("appointments: %q is not a terminal status: %w", to, ErrInvalidTransition)
		span.RecordError(err)
		return nil, err
	}
	if !appt.CanTransition(to) {
		t.logger.Warn("rejected transition of terminal appointment",
			"appointment_id", appt.ID,
			"status", appt.Status,
			"requested", to,
		)
		t.metrics.ObserveTransition(string(to), "invalid")
		span.RecordError(ErrInvalidTransition)
		return nil, ErrInvalidTransition
	}

	updated, err := t.repo.UpdateStatus(ctx, appt.ID, to, appt.Version)
	if err != nil {
		t.metrics.ObserveTransition(string(to), "conflict")
		span.RecordError(err)
		return nil, err
	}

	t.logger.Info("appointment transitioned",
		"appointment_id", updated.ID,
		"probationer_id", updated.ProbationerID,
		"status", updated.Status,
	)
	t.metrics.ObserveTransition(string(to), "ok")
	return updated, nil
}

// RescheduleEligible reports whether a Missed appointment may still be
// rebooked without officer approval: now must precede the first day of the
// month after the missed date, evaluated in the policy time zone. The flag is
// derived, never stored.
func RescheduleEligible(appt *Appointment, now time.Time, p schedule.Policy) bool {
	if appt.Status != StatusMissed {
		return false
	}
	return now.In(p.Location()).Before(schedule.GraceEnd(appt.ScheduledAt, p))
}
