package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "pricewatch"

const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// RunCounts is the per-listing outcome of one run.
type RunCounts struct {
	Checked  int
	Failed   int
	NotFound int
	Matched  int
}

// RunMetrics holds the collectors describing price check runs.
type RunMetrics struct {
	runs          *prometheus.CounterVec
	listings      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	runDuration   prometheus.Histogram
	lastSuccess   prometheus.Gauge
}

func NewRunMetrics(reg prometheus.Registerer) *RunMetrics {
	m := &RunMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Price check runs by result.",
		}, []string{"result"}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_total",
			Help:      "Listings processed by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Alert deliveries by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one price check run.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that completed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}

	return m
}

func (m *RunMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.runs, m.listings, m.notifications, m.runDuration, m.lastSuccess}
}

// ObserveRun records a finished run. err is the run level error, if any.
func (m *RunMetrics) ObserveRun(counts RunCounts, duration time.Duration, err error) {
	m.runDuration.Observe(duration.Seconds())

	if err != nil {
		m.runs.WithLabelValues(ResultFailed).Inc()

		return
	}

	m.runs.WithLabelValues(ResultOK).Inc()
	m.lastSuccess.SetToCurrentTime()

	m.listings.WithLabelValues("checked").Add(float64(counts.Checked))
	m.listings.WithLabelValues("failed").Add(float64(counts.Failed))
	m.listings.WithLabelValues("not_found").Add(float64(counts.NotFound))
	m.listings.WithLabelValues("matched").Add(float64(counts.Matched))
}

// ObserveNotification records one delivery attempt.
func (m *RunMetrics) ObserveNotification(err error) {
	if err != nil {
		m.notifications.WithLabelValues(ResultFailed).Inc()

		return
	}

	m.notifications.WithLabelValues(ResultOK).Inc()
}

// Push sends the run collectors to a Prometheus Pushgateway under job.
func (m *RunMetrics) Push(ctx context.Context, url, job string) error {
	pusher := push.New(url, job)

	for _, c := range m.collectors() {
		pusher = pusher.Collector(c)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pusher.PushContext: %w", err)
	}

	return nil
}
