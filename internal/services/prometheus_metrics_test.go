package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg).(*PrometheusMetrics)

	m.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "login_failed"})
	m.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "login_failed"})
	m.IncrementCounter(MetricAuthenticationEvent, map[string]string{})
	m.IncrementCounter(MetricReportGenerated, map[string]string{"format": "csv", "status": "success"})
	m.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "category", "operation": "create"})
	m.IncrementCounter("unknown", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.authenticationEventsTotal.WithLabelValues("login_failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reportsGeneratedTotal.WithLabelValues("csv", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recordChangesTotal.WithLabelValues("category", "create")))
}

func TestPrometheusMetrics_Histograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.RecordProcessingTime(MetricReportGeneration, 250*time.Millisecond)
	m.RecordGauge(MetricReportRows, 12, nil)

	count, err := testutil.GatherAndCount(reg, "report_generation_duration_seconds", "report_rows")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetrics(prometheus.NewRegistry())
		NewPrometheusMetrics(prometheus.NewRegistry())
	})
}
