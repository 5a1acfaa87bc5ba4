package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics.
const (
	MetricAuthenticationEvent = "authentication_event"
	MetricRecordChanged       = "record_changed"
	MetricReportGenerated     = "report_generated"
	MetricReportGeneration    = "report_generation"
	MetricReportRows          = "report_rows"
)

type PrometheusMetrics struct {
	authenticationEventsTotal *prometheus.CounterVec
	recordChangesTotal        *prometheus.CounterVec
	reportsGeneratedTotal     *prometheus.CounterVec
	reportGenerationDuration  prometheus.Histogram
	reportRows                prometheus.Histogram
}

// NewPrometheusMetrics registers the service metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		recordChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_changes_total",
				Help: "Total number of created, updated and deleted records",
			},
			[]string{"resource", "operation"},
		),
		reportsGeneratedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_generated_total",
				Help: "Total number of report generation attempts",
			},
			[]string{"format", "status"},
		),
		reportGenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_generation_duration_seconds",
				Help:    "Report generation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		reportRows: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_rows",
				Help:    "Number of transaction rows per generated report",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricAuthenticationEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case MetricRecordChanged:
		m.recordChangesTotal.WithLabelValues(tags["resource"], tags["operation"]).Inc()
	case MetricReportGenerated:
		if status := tags["status"]; status != "" {
			m.reportsGeneratedTotal.WithLabelValues(tags["format"], status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if name == MetricReportGeneration {
		m.reportGenerationDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == MetricReportRows {
		m.reportRows.Observe(value)
	}
}
