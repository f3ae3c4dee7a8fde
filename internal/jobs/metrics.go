// Package jobmetrics instruments asynq task handlers.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every task handler.
type Metrics struct {
	outcomes    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	lowStock    prometheus.Gauge
	now         func() time.Time
}

var defaultMetrics = sync.OnceValue(func() *Metrics {
	return register(prometheus.DefaultRegisterer)
})

// NewMetrics registers the collectors on registerer, or returns the process
// wide instance on the default registerer when registerer is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return defaultMetrics()
	}
	return register(registerer)
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetstore_jobs_total",
			Help: "Task executions by task type and outcome.",
		}, []string{"task", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vetstore_job_duration_seconds",
			Help:    "Wall time of task executions.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"task"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vetstore_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful execution per task type.",
		}, []string{"task"}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vetstore_low_stock_products",
			Help: "Active products under the low-stock threshold at the last scan.",
		}),
		now: time.Now,
	}
	registerer.MustRegister(m.outcomes, m.duration, m.lastSuccess, m.lowStock)
	return m
}

// Tracker times one task execution.
type Tracker struct {
	m     *Metrics
	job   string
	start time.Time
}

// Track starts timing job. A nil receiver yields a no-op tracker.
func (m *Metrics) Track(job string) *Tracker {
	t := &Tracker{m: m, job: job, start: time.Now()}
	if m != nil {
		t.start = m.now()
	}
	return t
}

// End records the outcome and returns err unchanged.
func (t *Tracker) End(err error) error {
	if t == nil || t.m == nil {
		return err
	}
	now := t.m.now()
	t.m.duration.WithLabelValues(t.job).Observe(now.Sub(t.start).Seconds())
	if err != nil {
		t.m.outcomes.WithLabelValues(t.job, "failure").Inc()
		return err
	}
	t.m.outcomes.WithLabelValues(t.job, "success").Inc()
	t.m.lastSuccess.WithLabelValues(t.job).Set(float64(now.Unix()))
	return nil
}

// SetLowStock publishes the latest low-stock product count.
func (m *Metrics) SetLowStock(count int) {
	if m != nil {
		m.lowStock.Set(float64(count))
	}
}
