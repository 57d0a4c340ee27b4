// Package metrics records conversion run counters in a private Prometheus
// registry. A run writes them out once, as a node-exporter textfile.
//
// A nil *Metrics is valid; every method on it is a no-op.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cedar2ccf"

// Request outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient_error"
	OutcomeFatal     = "fatal_error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	retries      prometheus.Counter
	cacheLookups *prometheus.CounterVec
	records      prometheus.Counter
	statements   prometheus.Gauge
	outputBytes  prometheus.Gauge
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cedar",
			Name:      "requests_total",
			Help:      "CEDAR API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cedar",
			Name:      "retries_total",
			Help:      "CEDAR API request retries after transient errors.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Instance cache lookups by result.",
		}, []string{"result"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Instance records converted into the ontology.",
		}),
		statements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_statements",
			Help:      "Statements in the exported ontology graph.",
		}),
		outputBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_bytes",
			Help:      "Size of the serialized ontology document.",
		}),
	}
	m.registry.MustRegister(m.requests, m.retries, m.cacheLookups, m.records, m.statements, m.outputBytes)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Request counts a completed CEDAR request.
func (m *Metrics) Request(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

// Retry counts a retried CEDAR request.
func (m *Metrics) Retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

// CacheLookup counts an instance cache lookup.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Records adds n converted records.
func (m *Metrics) Records(n int) {
	if m == nil {
		return
	}
	m.records.Add(float64(n))
}

// Graph records the size of the exported graph and document.
func (m *Metrics) Graph(statements, bytes int) {
	if m == nil {
		return
	}
	m.statements.Set(float64(statements))
	m.outputBytes.Set(float64(bytes))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
