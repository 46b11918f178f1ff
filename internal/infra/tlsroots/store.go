// Package tlsroots provides default trust-anchor management.
package tlsroots

import (
	"sync"
	"sync/atomic"

	"github.com/yndnr/credmesh-go/internal/telemetry/metric"
	"github.com/yndnr/credmesh-go/pkg/membuf"
)

// OverrideResult is the outcome reported by the roots override hook.
type OverrideResult int

const (
	// OverrideOK means the hook produced a root bundle.
	OverrideOK OverrideResult = iota

	// OverrideFail means no bundle has ever been set.
	OverrideFail
)

// Store is the process-wide cache of the default PEM root certificate
// bundle. Reads take a shared lock and never block each other; writes
// are rare and serialized.
//
// The store lives for the process lifetime; there is no teardown.
type Store struct {
	mu     sync.RWMutex
	pem    *membuf.Buffer
	writes atomic.Uint64

	metrics *metric.Registry
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the process-wide store, lazily constructed on first
// access.
func Default() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = NewStore(metric.NewNopRegistry())
	})
	return defaultStore
}

// NewStore creates an empty store. Most callers want Default; separate
// stores exist for tests.
func NewStore(metrics *metric.Registry) *Store {
	if metrics == nil {
		metrics = metric.NewNopRegistry()
	}
	return &Store{metrics: metrics}
}

// SetMetrics swaps the metrics registry. Used once during process
// initialization when the host wires Prometheus after the store's lazy
// construction.
func (s *Store) SetMetrics(metrics *metric.Registry) {
	if metrics == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = metrics
}

// Get returns the current bundle as a retained reference, or nil if no
// bundle has been set. The caller must Release the returned buffer.
func (s *Store) Get() *membuf.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.metrics.RootsReads.Inc()
	if s.pem == nil {
		return nil
	}
	return s.pem.Retain()
}

// Set replaces the stored bundle with a copy of pem.
//
// The write is optimistic: the bundle is first compared under the
// shared lock, and a byte-identical Set returns without ever taking the
// exclusive lock. Under the exclusive lock the comparison is repeated,
// since another writer may have won the race in between; worst case a
// concurrent racer causes one redundant write.
func (s *Store) Set(pem []byte) {
	if cur := s.Get(); cur != nil {
		same := cur.EqualBytes(pem)
		cur.Release()
		if same {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pem != nil && s.pem.EqualBytes(pem) {
		return
	}

	old := s.pem
	s.pem = membuf.FromBytes(pem)
	if old != nil {
		old.Release()
	}

	s.writes.Add(1)
	s.metrics.RootsWrites.Inc()
}

// WriteCount reports how many effective replacements have happened.
func (s *Store) WriteCount() uint64 {
	return s.writes.Load()
}

// OverrideHook returns the adapter the TLS layer queries at handshake
// time for the default root bundle.
//
// The hook returns a caller-owned copy of the bytes, never the store's
// shared reference: the TLS layer frees what it receives independently
// of the store's lifetime. It reports OverrideFail only if no bundle
// has ever been set.
func (s *Store) OverrideHook() func() ([]byte, OverrideResult) {
	return func() ([]byte, OverrideResult) {
		buf := s.Get()
		if buf == nil {
			return nil, OverrideFail
		}
		defer buf.Release()

		out := make([]byte, buf.Len())
		copy(out, buf.Bytes())
		return out, OverrideOK
	}
}
