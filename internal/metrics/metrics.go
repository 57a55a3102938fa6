package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gameshelf/newsletter/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EmailsSent       prometheus.Counter
	EmailsFailed     prometheus.Counter
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	LastRunSent      prometheus.Gauge
	LastRunFailed    prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_emails_sent_total",
			Help: "Total number of newsletter emails accepted by the mail provider.",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_emails_failed_total",
			Help: "Total number of newsletter delivery attempts that errored.",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_runs_total",
			Help: "Total number of completed newsletter runs, by trigger.",
		}, []string{"trigger"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_run_seconds",
			Help:    "Wall-clock duration of a full newsletter run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_last_run_timestamp_seconds",
			Help: "Unix time at which the most recent run finished.",
		}),
		LastRunSent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_last_run_sent",
			Help: "Emails sent by the most recent run.",
		}),
		LastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "newsletter_last_run_failed",
			Help: "Delivery failures recorded by the most recent run.",
		}),
	}

	reg.MustRegister(
		m.EmailsSent,
		m.EmailsFailed,
		m.RunsTotal,
		m.RunDuration,
		m.LastRunTimestamp,
		m.LastRunSent,
		m.LastRunFailed,
	)

	return m
}

// RunHook returns the per-run callback expected by dispatch.Hooks.
// Centralises the prometheus observation calls so the dispatcher stays
// metrics-agnostic.
func (m *Metrics) RunHook() func(*domain.RunReport) {
	return func(r *domain.RunReport) {
		m.EmailsSent.Add(float64(r.Sent))
		m.EmailsFailed.Add(float64(r.Failed()))
		m.RunsTotal.WithLabelValues(string(r.Trigger)).Inc()
		m.RunDuration.Observe(r.Duration().Seconds())
		m.LastRunTimestamp.Set(float64(r.FinishedAt.Unix()))
		m.LastRunSent.Set(float64(r.Sent))
		m.LastRunFailed.Set(float64(r.Failed()))
	}
}
