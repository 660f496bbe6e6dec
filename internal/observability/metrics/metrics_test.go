package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEngineMetricsObserve(t *testing.T) {
	m := NewEngineMetrics(prometheus.NewRegistry())
	m.ObserveBooking("create", "created")
	m.ObserveBooking("cancel", "cancelled")
	m.ObserveConflict()
	m.NotificationSent("booking_reminder_24h")
	m.NotificationFailed("booking_reminder_2h")
	m.NotificationRetried("booking_reminder_2h")
	m.ObserveScanLatency(0.25)
}

func TestEngineMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.NotificationSent("booking_confirmation")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestEngineMetricsNilSafe(t *testing.T) {
	var m *EngineMetrics
	m.ObserveBooking("create", "created")
	m.ObserveConflict()
	m.NotificationSent("booking_confirmation")
	m.NotificationFailed("booking_confirmation")
	m.NotificationRetried("booking_confirmation")
	m.ObserveScanLatency(0.1)
}
