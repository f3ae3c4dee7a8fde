package jobmetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	metrics.now = func() time.Time { return clock }

	require.NoError(t, metrics.Track("catalog:warmup").End(nil))
	boom := errors.New("redis down")
	require.ErrorIs(t, metrics.Track("catalog:warmup").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.outcomes.WithLabelValues("catalog:warmup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.outcomes.WithLabelValues("catalog:warmup", "failure")))
	assert.Equal(t, float64(clock.Unix()), testutil.ToFloat64(metrics.lastSuccess.WithLabelValues("catalog:warmup")))
}

func TestSetLowStock(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	metrics.SetLowStock(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.lowStock))

	var nilMetrics *Metrics
	nilMetrics.SetLowStock(3)
	assert.NoError(t, nilMetrics.Track("x").End(nil))
}

func TestDefaultMetricsAreShared(t *testing.T) {
	assert.Same(t, NewMetrics(nil), NewMetrics(nil))
}
