// Package metrics exposes probe and update state as Prometheus metrics.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hassglue"

const maxLabelLen = 64

func sanitizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) > maxLabelLen {
		s = s[:maxLabelLen]
	}
	return s
}

type Metrics struct {
	registry prometheus.Gatherer

	fileBytes       *prometheus.GaugeVec
	probeErrors     *prometheus.CounterVec
	updateAvailable *prometheus.GaugeVec
	installs        *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	refreshFailures prometheus.Counter
}

// New registers every collector on reg. Passing a fresh prometheus.Registry
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		fileBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "file",
				Name:      "size_bytes",
				Help:      "Size of a watched file in bytes at the last successful probe",
			},
			[]string{"entity", "path"},
		),
		probeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "file",
				Name:      "probe_errors_total",
				Help:      "Failed file probes by entity",
			},
			[]string{"entity"},
		),
		updateAvailable: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "update",
				Name:      "available",
				Help:      "1 when a newer version is published for the subject",
			},
			[]string{"entity"},
		),
		installs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "update",
				Name:      "installs_total",
				Help:      "Install requests by entity and result",
			},
			[]string{"entity", "result"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "supervisor",
				Name:      "refresh_duration_seconds",
				Help:      "Time to refresh Supervisor version data",
				Buckets:   prometheus.DefBuckets,
			},
		),
		refreshFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "supervisor",
				Name:      "refresh_failures_total",
				Help:      "Failed Supervisor refreshes",
			},
		),
	}

	reg.MustRegister(
		m.fileBytes,
		m.probeErrors,
		m.updateAvailable,
		m.installs,
		m.refreshDuration,
		m.refreshFailures,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFile sets the size gauge; a nil size counts as a probe failure and
// drops the gauge so stale sizes are not scraped.
func (m *Metrics) RecordFile(entityID, path string, bytes *int64) {
	id := sanitizeLabel(entityID)
	if bytes == nil {
		m.probeErrors.WithLabelValues(id).Inc()
		m.fileBytes.DeleteLabelValues(id, path)
		return
	}
	m.fileBytes.WithLabelValues(id, path).Set(float64(*bytes))
}

func (m *Metrics) ForgetFile(entityID, path string) {
	m.fileBytes.DeleteLabelValues(sanitizeLabel(entityID), path)
}

func (m *Metrics) RecordUpdateAvailable(entityID string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	m.updateAvailable.WithLabelValues(sanitizeLabel(entityID)).Set(v)
}

func (m *Metrics) ForgetUpdate(entityID string) {
	m.updateAvailable.DeleteLabelValues(sanitizeLabel(entityID))
}

func (m *Metrics) RecordInstall(entityID string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.installs.WithLabelValues(sanitizeLabel(entityID), result).Inc()
}

func (m *Metrics) RecordRefresh(d time.Duration, err error) {
	m.refreshDuration.Observe(d.Seconds())
	if err != nil {
		m.refreshFailures.Inc()
	}
}
