// Package metric provides Prometheus metrics for CredMesh.
package metric

// NewNopRegistry creates a registry whose metrics discard all updates.
// Used when the host application does not wire Prometheus.
func NewNopRegistry() *Registry {
	return &Registry{
		CredentialsCreated: nopCounterVec{},
		CredentialsClosed:  nopCounter{},
		PluginCalls:        nopCounterVec{},
		PluginFailures:     nopCounter{},
		RootsWrites:        nopCounter{},
		RootsReads:         nopCounter{},
	}
}

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopCounter{} }
