// Package service provides the credential operations for CredMesh.
package service

import (
	"sync/atomic"

	"github.com/yndnr/credmesh-go/internal/core/domain"
)

// PluginState holds the external metadata callback for one plugin-backed
// credential. The closure is read-only after construction; concurrent
// bridge calls read it without coordination.
//
// Ownership transfers to the native layer at credential construction.
// The state is reclaimed exactly once, through the destroy callback the
// native layer fires on the credential's final release.
type PluginState struct {
	callback  domain.MetadataCallback
	destroyed atomic.Bool
}

// NewPluginState wraps a metadata callback. A nil callback is rejected
// before any resource is acquired.
func NewPluginState(cb domain.MetadataCallback) (*PluginState, error) {
	if cb == nil {
		return nil, domain.ErrNilCallback
	}
	return &PluginState{callback: cb}, nil
}

// Destroy frees the state. It must run exactly once; a second call
// panics, since that indicates a double release in the owner. The
// callback reference itself stays intact so a bridge call racing the
// final release observes either the callback or the destroyed flag,
// never a nil closure.
func (p *PluginState) Destroy() {
	if !p.destroyed.CompareAndSwap(false, true) {
		panic("service: plugin state destroyed twice")
	}
}

// Destroyed reports whether Destroy has run.
func (p *PluginState) Destroyed() bool {
	return p.destroyed.Load()
}
