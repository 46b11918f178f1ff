// Package native adapts credentials onto the gRPC credentials plumbing.
package native

import (
	"crypto/tls"
	"crypto/x509"
	"sync"

	"google.golang.org/grpc/credentials"

	"github.com/yndnr/credmesh-go/internal/core/domain"
	"github.com/yndnr/credmesh-go/internal/infra/tlsroots"
)

// RootsOverride supplies the default PEM root bundle at credential
// construction time. It returns a caller-owned copy of the bytes.
type RootsOverride func() ([]byte, tlsroots.OverrideResult)

var (
	rootsOverrideMu sync.RWMutex
	rootsOverride   RootsOverride
)

// RegisterRootsOverride installs the hook consulted when channel
// credentials are built without explicit roots. Registered once during
// process initialization.
func RegisterRootsOverride(hook RootsOverride) {
	rootsOverrideMu.Lock()
	defer rootsOverrideMu.Unlock()
	rootsOverride = hook
}

// defaultRootPool resolves the trust anchors for credentials built
// without explicit roots: the registered override first, then the
// system pool.
func defaultRootPool() (*x509.CertPool, error) {
	rootsOverrideMu.RLock()
	hook := rootsOverride
	rootsOverrideMu.RUnlock()

	if hook != nil {
		if pem, res := hook(); res == tlsroots.OverrideOK {
			return tlsroots.PoolFromPEM(pem)
		}
	}
	return tlsroots.SystemPool(), nil
}

// ChannelCreds secures a channel. It implements credentials.Bundle so
// a composite can carry per-RPC credentials alongside the transport.
type ChannelCreds struct {
	handle    *Handle
	transport credentials.TransportCredentials
	perRPC    *CallCreds
}

// NewDefaultChannelCreds builds TLS transport credentials from the
// default trust anchors.
func NewDefaultChannelCreds() (*ChannelCreds, error) {
	pool, err := defaultRootPool()
	if err != nil {
		return nil, domain.ErrCredentialCreation.WithCause(err)
	}
	return newTLSChannelCreds(pool, nil)
}

// NewSSLChannelCreds builds TLS transport credentials. Nil roots fall
// back to the default trust anchors. privateKey and certChain, when
// both present, configure a client identity.
func NewSSLChannelCreds(roots, privateKey, certChain []byte) (*ChannelCreds, error) {
	var pool *x509.CertPool
	var err error
	if roots != nil {
		pool, err = tlsroots.PoolFromPEM(roots)
	} else {
		pool, err = defaultRootPool()
	}
	if err != nil {
		return nil, domain.ErrCredentialCreation.WithCause(err)
	}

	var certs []tls.Certificate
	if privateKey != nil && certChain != nil {
		cert, err := tls.X509KeyPair(certChain, privateKey)
		if err != nil {
			return nil, domain.ErrCredentialCreation.WithCause(err)
		}
		certs = []tls.Certificate{cert}
	}
	return newTLSChannelCreds(pool, certs)
}

func newTLSChannelCreds(pool *x509.CertPool, certs []tls.Certificate) (*ChannelCreds, error) {
	cfg := &tls.Config{
		RootCAs:      pool,
		Certificates: certs,
		MinVersion:   tls.VersionTLS12,
	}
	return &ChannelCreds{
		handle:    NewHandle(nil),
		transport: credentials.NewTLS(cfg),
	}, nil
}

// NewCompositeChannelCreds combines channel credentials with call
// credentials into a bundle. Both inputs are retained; releasing the
// composite releases only its own retained references.
func NewCompositeChannelCreds(ch *ChannelCreds, call *CallCreds) (*ChannelCreds, error) {
	if ch == nil || call == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("composite channel credentials require channel and call credentials")
	}
	if ch.Released() || call.Released() {
		return nil, domain.ErrHandleReleased
	}

	ch.handle.Retain()
	call.handle.Retain()

	return &ChannelCreds{
		handle: NewHandle(func() {
			ch.handle.Release()
			call.handle.Release()
		}),
		transport: ch.transport,
		perRPC:    call,
	}, nil
}

// TransportCredentials implements credentials.Bundle.
func (c *ChannelCreds) TransportCredentials() credentials.TransportCredentials {
	return c.transport
}

// PerRPCCredentials implements credentials.Bundle. Nil when the channel
// carries no call credentials.
func (c *ChannelCreds) PerRPCCredentials() credentials.PerRPCCredentials {
	if c.perRPC == nil {
		return nil
	}
	return c.perRPC
}

// NewWithMode implements credentials.Bundle. CredMesh bundles are
// mode-less.
func (c *ChannelCreds) NewWithMode(string) (credentials.Bundle, error) {
	return nil, domain.ErrInvalidArgument.WithDetails("channel credential bundles do not support modes")
}

// Retain adds a handle reference.
func (c *ChannelCreds) Retain() {
	c.handle.Retain()
}

// Release drops a handle reference.
func (c *ChannelCreds) Release() {
	c.handle.Release()
}

// Released reports whether the underlying handle has been freed.
func (c *ChannelCreds) Released() bool {
	return c.handle.Released()
}

var _ credentials.Bundle = (*ChannelCreds)(nil)
