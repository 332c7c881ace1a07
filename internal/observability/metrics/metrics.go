package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the scheduling core.
type SchedulingMetrics struct {
	verdictTotal    *prometheus.CounterVec
	finderScanDays  *prometheus.HistogramVec
	transitionTotal *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		verdictTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "probation",
			Subsystem: "schedule",
			Name:      "verdict_total",
			Help:      "Slot validation verdicts by request kind, outcome, and reason",
		}, []string{"kind", "outcome", "reason"}),
		finderScanDays: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "probation",
			Subsystem: "schedule",
			Name:      "finder_scan_days",
			Help:      "Days scanned by the next-available-slot search",
			Buckets:   []float64{0, 1, 2, 3, 5, 7, 14, 31, 62},
		}, []string{"kind"}),
		transitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "probation",
			Subsystem: "appointments",
			Name:      "transition_total",
			Help:      "Appointment status transitions by target status and outcome",
		}, []string{"to_status", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.verdictTotal, m.finderScanDays, m.transitionTotal)
	return m
}

func (m *SchedulingMetrics) ObserveVerdict(kind, outcome, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.verdictTotal.WithLabelValues(kind, outcome, reason).Inc()
}

func (m *SchedulingMetrics) ObserveFinderScan(kind string, days int) {
	if m == nil {
		return
	}
	m.finderScanDays.WithLabelValues(kind).Observe(float64(days))
}

func (m *SchedulingMetrics) ObserveTransition(toStatus, outcome string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(toStatus, outcome).Inc()
}
