// Package native adapts credentials onto the gRPC credentials plumbing.
package native

import "sync/atomic"

// Handle is an atomically refcounted lifetime for an opaque credential
// resource. A new handle starts with one reference; the onFree hook runs
// exactly once, when the last reference is released.
type Handle struct {
	refs   atomic.Int32
	onFree func()
}

// NewHandle creates a handle with a single reference. onFree may be nil.
func NewHandle(onFree func()) *Handle {
	h := &Handle{onFree: onFree}
	h.refs.Store(1)
	return h
}

// Retain adds a reference and returns h. Panics if the handle has
// already been freed.
func (h *Handle) Retain() *Handle {
	for {
		old := h.refs.Load()
		if old <= 0 {
			panic("native: retain of freed handle")
		}
		if h.refs.CompareAndSwap(old, old+1) {
			return h
		}
	}
}

// Release drops one reference. The onFree hook runs when the count
// reaches zero. Panics on release past zero.
func (h *Handle) Release() {
	n := h.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n == 0:
		if h.onFree != nil {
			h.onFree()
		}
	default:
		panic("native: release of freed handle")
	}
}

// Released reports whether the handle has been freed.
func (h *Handle) Released() bool {
	return h.refs.Load() <= 0
}

// Refs returns the current reference count. Diagnostic use only.
func (h *Handle) Refs() int32 {
	return h.refs.Load()
}
