// Package metrics exposes Prometheus collectors for the HTTP surface and the
// reconciliation pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "formcount"

// Metrics groups every collector. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	reconcileRows   *prometheus.CounterVec
	reconcileErrors *prometheus.CounterVec
	reportCache     *prometheus.CounterVec
	jobsPublished   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		reconcileRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_rows_total",
			Help:      "Rows handled by reconciliation passes.",
		}, []string{"flow", "outcome"}),
		reconcileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_failures_total",
			Help:      "Reconciliation passes aborted by a storage error.",
		}, []string{"flow"}),
		reportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_lookups_total",
			Help:      "Report cache lookups by result.",
		}, []string{"result"}),
		jobsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_jobs_published_total",
			Help:      "Asynchronous reconcile requests published.",
		}, []string{"flow"}),
	}
	reg.MustRegister(m.requestDuration, m.reconcileRows, m.reconcileErrors, m.reportCache, m.jobsPublished)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ReconcileRows(flow, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.reconcileRows.WithLabelValues(flow, outcome).Add(float64(n))
}

func (m *Metrics) ReconcileFailed(flow string) {
	if m == nil {
		return
	}
	m.reconcileErrors.WithLabelValues(flow).Inc()
}

func (m *Metrics) ReportCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reportCache.WithLabelValues(result).Inc()
}

func (m *Metrics) JobPublished(flow string) {
	if m == nil {
		return
	}
	m.jobsPublished.WithLabelValues(flow).Inc()
}
