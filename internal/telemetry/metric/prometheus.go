// Package metric provides Prometheus metrics for CredMesh.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Credential metrics
	CredentialsCreated CounterVec // labeled by credential kind
	CredentialsClosed  Counter

	// Plugin bridge metrics
	PluginCalls    CounterVec // labeled by protocol status
	PluginFailures Counter    // callback errors and shape violations

	// Root certificate store metrics
	RootsWrites Counter
	RootsReads  Counter
}

// Counter is a cumulative metric that only increases.
type Counter interface {
	Inc()
	Add(float64)
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(float64)
	Inc()
	Dec()
}

// NewRegistry creates a new metrics registry with Prometheus collectors
// registered against reg. Pass prometheus.DefaultRegisterer for the
// process-wide registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "credentials_created_total",
		Help:      "Credentials constructed, by kind.",
	}, []string{"kind"})

	closed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "credentials_closed_total",
		Help:      "Credentials released.",
	})

	pluginCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "plugin_calls_total",
		Help:      "Synchronous plugin metadata calls, by protocol status.",
	}, []string{"status"})

	pluginFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "plugin_failures_total",
		Help:      "Plugin callback errors and result shape violations.",
	})

	rootsWrites := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "roots_store_writes_total",
		Help:      "Effective replacements of the default root cert bundle.",
	})

	rootsReads := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "credmesh",
		Name:      "roots_store_reads_total",
		Help:      "Reads of the default root cert bundle.",
	})

	reg.MustRegister(created, closed, pluginCalls, pluginFailures, rootsWrites, rootsReads)

	return &Registry{
		CredentialsCreated: promCounterVec{created},
		CredentialsClosed:  closed,
		PluginCalls:        promCounterVec{pluginCalls},
		PluginFailures:     pluginFailures,
		RootsWrites:        rootsWrites,
		RootsReads:         rootsReads,
	}
}

// promCounterVec adapts *prometheus.CounterVec to the CounterVec interface.
type promCounterVec struct {
	vec *prometheus.CounterVec
}

func (v promCounterVec) WithLabelValues(lvs ...string) Counter {
	return v.vec.WithLabelValues(lvs...)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
