package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveVerdict("walk_in", "rejected", "lunch-closed")
	m.ObserveVerdict("walk_in", "accepted", "")
	m.ObserveFinderScan("after_hours", 9)
	m.ObserveTransition("completed", "ok")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var verdicts *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "probation_schedule_verdict_total" {
			verdicts = fam
		}
	}
	if verdicts == nil {
		t.Fatal("verdict counter not registered")
	}
	if len(verdicts.GetMetric()) != 2 {
		t.Fatalf("expected 2 verdict series, got %d", len(verdicts.GetMetric()))
	}
	for _, metric := range verdicts.GetMetric() {
		if metric.GetCounter().GetValue() != 1 {
			t.Fatalf("expected counter value 1, got %f", metric.GetCounter().GetValue())
		}
	}
}

func TestSchedulingMetricsEmptyReasonLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveVerdict("phone_check_in", "accepted", "")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "probation_schedule_verdict_total" {
			continue
		}
		labels := fam.GetMetric()[0].GetLabel()
		for _, l := range labels {
			if l.GetName() == "reason" && l.GetValue() != "none" {
				t.Fatalf("expected empty reason mapped to none, got %q", l.GetValue())
			}
		}
	}
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveVerdict("walk_in", "accepted", "")
	m.ObserveFinderScan("walk_in", 1)
	m.ObserveTransition("missed", "ok")
}
