// Package credmesh composes per-call and channel credentials for secure
// RPC transports.
//
// The package-level functions operate on a lazily constructed default
// service whose root certificate store is registered as the transport's
// trust-anchor override. Construct a service directly via
// internal packages only from within this module; external callers use
// this facade.
package credmesh

import (
	"sync"

	"github.com/yndnr/credmesh-go/internal/core/domain"
	"github.com/yndnr/credmesh-go/internal/core/service"
	"github.com/yndnr/credmesh-go/internal/native"
)

// MaxSyncMetadata is the fixed capacity of the synchronous plugin
// protocol's output buffer.
const MaxSyncMetadata = domain.MaxSyncMetadata

// Re-exported domain types.
type (
	// AuthContext identifies the call a metadata request is for.
	AuthContext = domain.AuthContext

	// MetadataCallback produces authentication metadata for one call.
	MetadataCallback = domain.MetadataCallback

	// MetadataPair is one ordered key/value item in a callback result.
	MetadataPair = domain.MetadataPair

	// CallCredentials attaches authentication metadata to RPCs.
	CallCredentials = service.CallCredentials

	// ChannelCredentials secures a channel. A nil value is the insecure
	// credential.
	ChannelCredentials = service.ChannelCredentials
)

// Re-exported error taxonomy.
var (
	ErrInvalidArgument       = domain.ErrInvalidArgument
	ErrNilCallback           = domain.ErrNilCallback
	ErrCredentialCreation    = domain.ErrCredentialCreation
	ErrHandleReleased        = domain.ErrHandleReleased
	ErrInvalidCallbackResult = domain.ErrInvalidCallbackResult
	ErrInvalidMetadataEntry  = domain.ErrInvalidMetadataEntry
)

var (
	defaultService *service.Service
	defaultOnce    sync.Once
)

// defaultSvc returns the process-wide service, wiring its root store as
// the trust-anchor override on first use.
func defaultSvc() *service.Service {
	defaultOnce.Do(func() {
		defaultService = service.New()
		native.RegisterRootsOverride(defaultService.RootsOverrideHook())
	})
	return defaultService
}

// NewCallCredentialsFromPlugin builds call credentials backed by cb.
// The callback runs synchronously once per outgoing call and must
// return a mapping of metadata keys to values.
func NewCallCredentialsFromPlugin(cb MetadataCallback) (*CallCredentials, error) {
	return defaultSvc().CreateFromPlugin(cb)
}

// NewCompositeCallCredentials combines two call credentials. On a
// duplicate metadata key the second credential wins.
func NewCompositeCallCredentials(a, b *CallCredentials) (*CallCredentials, error) {
	return defaultSvc().CreateCompositeCall(a, b)
}

// NewDefaultChannelCredentials builds channel credentials from the
// default trust anchors.
func NewDefaultChannelCredentials() (*ChannelCredentials, error) {
	return defaultSvc().CreateDefault()
}

// NewSSLChannelCredentials builds TLS channel credentials. All three
// arguments are optional: nil roots fall back to the default trust
// anchors, and the key/chain pair configures a client identity when
// both are present.
func NewSSLChannelCredentials(rootCerts, privateKey, certChain []byte) (*ChannelCredentials, error) {
	return defaultSvc().CreateSSL(rootCerts, privateKey, certChain)
}

// NewCompositeChannelCredentials attaches call credentials to channel
// credentials.
func NewCompositeChannelCredentials(ch *ChannelCredentials, call *CallCredentials) (*ChannelCredentials, error) {
	return defaultSvc().CreateComposite(ch, call)
}

// NewInsecureChannelCredentials returns the insecure credential: nil,
// the deliberate absence of channel security.
func NewInsecureChannelCredentials() *ChannelCredentials {
	return defaultSvc().CreateInsecure()
}

// SetDefaultRootsPem replaces the process-default PEM root bundle used
// by credentials built without explicit roots.
func SetDefaultRootsPem(pem []byte) {
	defaultSvc().SetDefaultRootsPem(pem)
}
