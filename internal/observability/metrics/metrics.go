package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for booking and notification flows.
type EngineMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	conflictsTotal     prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	retriesTotal       *prometheus.CounterVec
	scanLatency        prometheus.Histogram
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingengine",
			Subsystem: "bookings",
			Name:      "lifecycle_total",
			Help:      "Booking lifecycle transitions by outcome",
		}, []string{"operation", "status"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingengine",
			Subsystem: "bookings",
			Name:      "conflicts_total",
			Help:      "Booking attempts rejected for overlapping windows",
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingengine",
			Subsystem: "notifications",
			Name:      "dispatch_total",
			Help:      "Notification dispatch outcomes by type",
		}, []string{"type", "status"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingengine",
			Subsystem: "notifications",
			Name:      "retries_total",
			Help:      "Notification retry attempts by type",
		}, []string{"type"}),
		scanLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookingengine",
			Subsystem: "notifications",
			Name:      "scan_latency_seconds",
			Help:      "Latency of the notification scan pass",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.conflictsTotal, m.notificationsTotal, m.retriesTotal, m.scanLatency)
	return m
}

// ObserveBooking counts one lifecycle operation outcome.
func (m *EngineMetrics) ObserveBooking(operation, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveConflict counts one rejected double-booking attempt.
func (m *EngineMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

// NotificationSent counts a delivered notification.
func (m *EngineMetrics) NotificationSent(typ string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(typ, "sent").Inc()
}

// NotificationFailed counts a failed dispatch.
func (m *EngineMetrics) NotificationFailed(typ string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(typ, "failed").Inc()
}

// NotificationRetried counts one retry attempt.
func (m *EngineMetrics) NotificationRetried(typ string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(typ).Inc()
}

// ObserveScanLatency records one scan pass duration.
func (m *EngineMetrics) ObserveScanLatency(seconds float64) {
	if m == nil {
		return
	}
	m.scanLatency.Observe(seconds)
}
