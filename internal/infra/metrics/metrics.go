// Package metrics holds the Prometheus instrumentation for the dispatch
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms updated by the daily cycle.
type Metrics struct {
	DispatchCycles   prometheus.Counter
	MailsSent        prometheus.Counter
	MailsFailed      prometheus.Counter
	CycleDuration    prometheus.Histogram
	CyclesSkipped    prometheus.Counter
	SubscribersTotal prometheus.Gauge
}

// New creates and registers all dispatch metrics with the default
// Prometheus registry.
func New() *Metrics {
	m := &Metrics{
		DispatchCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uvalert",
			Name:      "dispatch_cycles_total",
			Help:      "Completed daily dispatch cycles.",
		}),
		MailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uvalert",
			Name:      "dispatch_sent_total",
			Help:      "Alert mails sent successfully.",
		}),
		MailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uvalert",
			Name:      "dispatch_failed_total",
			Help:      "Recipients that failed within a cycle.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uvalert",
			Name:      "dispatch_cycle_duration_seconds",
			Help:      "Wall-clock duration of a complete dispatch cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		CyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uvalert",
			Name:      "dispatch_cycles_skipped_total",
			Help:      "Triggers skipped because a cycle was still running.",
		}),
		SubscribersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uvalert",
			Name:      "subscribers_total",
			Help:      "Subscribers processed by the most recent cycle.",
		}),
	}

	prometheus.MustRegister(
		m.DispatchCycles,
		m.MailsSent,
		m.MailsFailed,
		m.CycleDuration,
		m.CyclesSkipped,
		m.SubscribersTotal,
	)

	return m
}
