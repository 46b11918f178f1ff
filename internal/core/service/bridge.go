// Package service provides the credential operations for CredMesh.
package service

import (
	"errors"

	"github.com/yndnr/credmesh-go/internal/core/domain"
	"github.com/yndnr/credmesh-go/internal/telemetry/metric"
)

// overflowDiagnostic is the static message reported when a callback
// produces more entries than the protocol's output buffer holds.
// Overflow is reported, never truncated.
const overflowDiagnostic = "result of calling the metadata callback exceeded the maximum metadata entry capacity"

// Bridge runs the synchronous metadata protocol for one plugin-backed
// credential. Each GetMetadata invocation is an independent transaction;
// the only call-to-call state is the immutable PluginState closure.
type Bridge struct {
	state   *PluginState
	metrics *metric.Registry
}

// NewBridge binds a bridge to its plugin state.
func NewBridge(state *PluginState, metrics *metric.Registry) *Bridge {
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Bridge{state: state, metrics: metrics}
}

// GetMetadata invokes the external callback for ctx and fills out with
// validated metadata entries.
//
// The callback runs synchronously on the calling goroutine and may
// block it for arbitrary user code; no timeout or cancellation applies.
//
// Protocol failures are encoded in the returned status, never in err:
// a malformed entry yields StatusInvalidArgument with zero entries and
// empty details; more validated entries than out holds yields
// StatusInternal with a static diagnostic and zero entries. A callback
// error, or a result that is not a mapping at all, is fatal for this
// bridge call and returned as err.
//
// Each filled entry carries one reference to its key and value buffers,
// retained before the bridge's local working set is torn down. The
// caller owns those references and must release them.
func (b *Bridge) GetMetadata(ctx domain.AuthContext, out []domain.MetadataEntry) (n int, code domain.StatusCode, errorDetails string, err error) {
	if b.state.Destroyed() {
		return 0, domain.StatusInternal, "", domain.ErrStateDestroyed
	}

	result, err := b.state.callback(ctx)
	if err != nil {
		b.metrics.PluginFailures.Inc()
		return 0, domain.StatusInternal, "", err
	}

	entries, err := domain.ParseCallbackResult(result)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMetadataEntry) {
			b.metrics.PluginCalls.WithLabelValues(domain.StatusInvalidArgument.String()).Inc()
			return 0, domain.StatusInvalidArgument, "", nil
		}
		b.metrics.PluginFailures.Inc()
		return 0, domain.StatusInternal, "", err
	}

	if len(entries) > len(out) {
		domain.ReleaseEntries(entries)
		b.metrics.PluginCalls.WithLabelValues(domain.StatusInternal.String()).Inc()
		return 0, domain.StatusInternal, overflowDiagnostic, nil
	}

	// The local entries are torn down below; the output buffer must
	// outlive them, so each copied buffer gains a reference first.
	for i, e := range entries {
		out[i] = domain.MetadataEntry{
			Key:   e.Key.Retain(),
			Value: e.Value.Retain(),
		}
	}
	n = len(entries)
	domain.ReleaseEntries(entries)

	b.metrics.PluginCalls.WithLabelValues(domain.StatusOK.String()).Inc()
	return n, domain.StatusOK, "", nil
}
