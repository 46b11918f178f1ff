// Package service provides the credential operations for CredMesh.
package service

import (
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/credmesh-go/internal/core/domain"
	"github.com/yndnr/credmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/credmesh-go/internal/native"
	"github.com/yndnr/credmesh-go/internal/telemetry/logger"
	"github.com/yndnr/credmesh-go/internal/telemetry/metric"
	"github.com/yndnr/credmesh-go/pkg/cmap"
	"github.com/yndnr/credmesh-go/pkg/fingerprint"
)

// CallCredentials is a handle on per-call authentication credentials.
// It is a single-owner value; Close releases the underlying native
// handle exactly once.
type CallCredentials struct {
	id      string
	creds   *native.CallCreds
	metrics *metric.Registry
	live    *cmap.Map[string]
	closed  atomic.Bool
}

// ID returns the credential's ULID, used for log correlation.
func (c *CallCredentials) ID() string {
	return c.id
}

// Native exposes the underlying per-RPC credentials for the transport.
func (c *CallCredentials) Native() *native.CallCreds {
	return c.creds
}

// Close releases this credential's native handle. A second Close
// reports ErrHandleReleased and releases nothing.
func (c *CallCredentials) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return domain.ErrHandleReleased
	}
	c.creds.Release()
	if c.live != nil {
		c.live.Delete(c.id)
	}
	c.metrics.CredentialsClosed.Inc()
	return nil
}

// ChannelCredentials is a handle on channel-securing credentials.
//
// A nil *ChannelCredentials is meaningful: it is the insecure
// credential, the deliberate absence of channel security.
type ChannelCredentials struct {
	id      string
	hashKey string
	creds   *native.ChannelCreds
	metrics *metric.Registry
	live    *cmap.Map[string]
	closed  atomic.Bool
}

// ID returns the credential's ULID, used for log correlation.
func (c *ChannelCredentials) ID() string {
	return c.id
}

// HashKey returns the identity digest for channel-pooling decisions.
// Empty when the credential carries no client identity.
func (c *ChannelCredentials) HashKey() string {
	return c.hashKey
}

// Native exposes the underlying credentials bundle for the transport.
func (c *ChannelCredentials) Native() *native.ChannelCreds {
	return c.creds
}

// Close releases this credential's native handle. A second Close
// reports ErrHandleReleased and releases nothing.
func (c *ChannelCredentials) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return domain.ErrHandleReleased
	}
	c.creds.Release()
	if c.live != nil {
		c.live.Delete(c.id)
	}
	c.metrics.CredentialsClosed.Inc()
	return nil
}

// Service implements the credential composition operations.
type Service struct {
	logger  logger.Logger
	metrics *metric.Registry
	roots   *tlsroots.Store

	// live maps credential ID to kind for every handle that has been
	// created but not yet closed.
	live *cmap.Map[string]

	// Construction seams, swappable in tests to exercise native
	// failure paths.
	newPluginCreds    func(src native.MetadataSource, destroy func()) (*native.CallCreds, error)
	newDefaultChannel func() (*native.ChannelCreds, error)
	newSSLChannel     func(roots, privateKey, certChain []byte) (*native.ChannelCreds, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRootStore sets the default root certificate store. Most callers
// want the process-wide store; separate stores exist for tests.
func WithRootStore(store *tlsroots.Store) Option {
	return func(s *Service) {
		s.roots = store
	}
}

// New creates a credential service.
func New(opts ...Option) *Service {
	s := &Service{
		logger:            logger.Default(),
		metrics:           metric.NewNopRegistry(),
		roots:             tlsroots.Default(),
		live:              cmap.New[string](),
		newPluginCreds:    native.NewPluginCallCreds,
		newDefaultChannel: native.NewDefaultChannelCreds,
		newSSLChannel:     native.NewSSLChannelCreds,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.roots.SetMetrics(s.metrics)
	return s
}

func (s *Service) trackCall(kind string, creds *native.CallCreds) *CallCredentials {
	c := &CallCredentials{id: ulid.Make().String(), creds: creds, metrics: s.metrics, live: s.live}
	s.live.Set(c.id, kind)
	s.metrics.CredentialsCreated.WithLabelValues(kind).Inc()
	return c
}

func (s *Service) trackChannel(kind, hashKey string, creds *native.ChannelCreds) *ChannelCredentials {
	c := &ChannelCredentials{id: ulid.Make().String(), hashKey: hashKey, creds: creds, metrics: s.metrics, live: s.live}
	s.live.Set(c.id, kind)
	s.metrics.CredentialsCreated.WithLabelValues(kind).Inc()
	return c
}

// LiveCredentials returns the number of credentials created by this
// service that have not been closed.
func (s *Service) LiveCredentials() int {
	return s.live.Count()
}

// CredentialKind looks up the kind of a live credential by ID. It
// reports false once the credential has been closed.
func (s *Service) CredentialKind(id string) (string, bool) {
	return s.live.Get(id)
}

// CreateFromPlugin builds call credentials backed by an external
// metadata callback. The callback is invoked synchronously once per
// outgoing call.
func (s *Service) CreateFromPlugin(cb domain.MetadataCallback) (*CallCredentials, error) {
	state, err := NewPluginState(cb)
	if err != nil {
		return nil, err
	}

	bridge := NewBridge(state, s.metrics)
	creds, err := s.newPluginCreds(bridge, state.Destroy)
	if err != nil {
		// The state must not leak when construction fails after
		// allocation.
		state.Destroy()
		return nil, domain.ErrCredentialCreation.WithCause(err)
	}

	c := s.trackCall("plugin_call", creds)
	s.logger.Info("call credentials created",
		"credential_id", c.id,
		"kind", "plugin_call",
	)
	return c, nil
}

// CreateCompositeCall combines two call credentials. Both inputs stay
// independently usable and closable.
func (s *Service) CreateCompositeCall(a, b *CallCredentials) (*CallCredentials, error) {
	if a == nil || b == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("composite call credentials require two credentials")
	}

	creds, err := native.NewCompositeCallCreds(a.creds, b.creds)
	if err != nil {
		return nil, err
	}

	c := s.trackCall("composite_call", creds)
	s.logger.Info("call credentials created",
		"credential_id", c.id,
		"kind", "composite_call",
		"first_id", a.id,
		"second_id", b.id,
	)
	return c, nil
}

// CreateDefault builds channel credentials from the default trust
// anchors: the root store override when a bundle has been set, the
// system pool otherwise.
func (s *Service) CreateDefault() (*ChannelCredentials, error) {
	creds, err := s.newDefaultChannel()
	if err != nil {
		return nil, err
	}

	c := s.trackChannel("default_channel", "", creds)
	s.logger.Info("channel credentials created",
		"credential_id", c.id,
		"kind", "default_channel",
	)
	return c, nil
}

// CreateSSL builds TLS channel credentials. All three arguments are
// optional: nil roots fall back to the default trust anchors, and the
// key/chain pair configures a client identity when both are present.
//
// The hash key digests the identity material so channels with the same
// identity can share a pool slot; identity-less credentials hash empty.
func (s *Service) CreateSSL(rootCerts, privateKey, certChain []byte) (*ChannelCredentials, error) {
	creds, err := s.newSSLChannel(rootCerts, privateKey, certChain)
	if err != nil {
		return nil, err
	}

	var hashKey string
	if privateKey != nil && certChain != nil {
		hashKey = fingerprint.KeyPair(privateKey, certChain)
	}

	c := s.trackChannel("ssl_channel", hashKey, creds)
	s.logger.Info("channel credentials created",
		"credential_id", c.id,
		"kind", "ssl_channel",
		"has_identity", hashKey != "",
	)
	return c, nil
}

// CreateComposite attaches call credentials to channel credentials.
// The hash key is inherited unchanged: call credentials do not affect
// channel-pooling identity.
func (s *Service) CreateComposite(ch *ChannelCredentials, call *CallCredentials) (*ChannelCredentials, error) {
	if ch == nil || call == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("composite channel credentials require channel and call credentials")
	}

	creds, err := native.NewCompositeChannelCreds(ch.creds, call.creds)
	if err != nil {
		return nil, err
	}

	c := s.trackChannel("composite_channel", ch.hashKey, creds)
	s.logger.Info("channel credentials created",
		"credential_id", c.id,
		"kind", "composite_channel",
		"channel_id", ch.id,
		"call_id", call.id,
	)
	return c, nil
}

// CreateInsecure returns the insecure credential: nil, the deliberate
// absence of channel security. The transport treats a nil credential
// as a plaintext channel.
func (s *Service) CreateInsecure() *ChannelCredentials {
	return nil
}

// SetDefaultRootsPem replaces the process-default PEM root bundle used
// by credentials built without explicit roots.
func (s *Service) SetDefaultRootsPem(pem []byte) {
	s.roots.Set(pem)
	s.logger.Info("default root bundle replaced",
		"bytes", len(pem),
	)
}

// RootsOverrideHook exposes the store's override hook for registration
// with the native layer during process initialization.
func (s *Service) RootsOverrideHook() func() ([]byte, tlsroots.OverrideResult) {
	return s.roots.OverrideHook()
}
