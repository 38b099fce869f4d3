// Package metrics defines Prometheus metrics for bloompald.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloompal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloompal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	WateringsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bloompal_waterings_total",
			Help: "Total recorded waterings",
		},
	)

	RemindersOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bloompal_reminders_opened_total",
			Help: "Total watering reminders opened by the sweep",
		},
	)

	SweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloompal_reminder_sweeps_total",
			Help: "Total reminder sweeps by result",
		},
		[]string{"result"},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bloompal_reminder_sweep_duration_seconds",
			Help:    "Reminder sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal,
		WateringsTotal, RemindersOpened,
		SweepsTotal, SweepDuration,
	)
}
