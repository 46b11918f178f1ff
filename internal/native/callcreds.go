// Package native adapts credentials onto the gRPC credentials plumbing.
package native

import (
	"context"
	"encoding/base64"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	"github.com/yndnr/credmesh-go/internal/core/domain"
)

// MetadataSource runs the synchronous metadata protocol for one call.
// out has fixed capacity; n reports how many entries were filled. The
// caller owns one reference to each filled entry.
type MetadataSource interface {
	GetMetadata(ctx domain.AuthContext, out []domain.MetadataEntry) (n int, code domain.StatusCode, errorDetails string, err error)
}

// CallCreds attaches authentication metadata to individual RPCs. It
// implements credentials.PerRPCCredentials over a refcounted handle.
type CallCreds struct {
	handle *Handle
	meta   func(ctx context.Context, uri ...string) (map[string]string, error)
}

// NewPluginCallCreds wraps a metadata source as per-RPC credentials.
// The destroy callback fires when the last handle reference is
// released.
func NewPluginCallCreds(src MetadataSource, destroy func()) (*CallCreds, error) {
	if src == nil {
		return nil, domain.ErrCredentialCreation.WithDetails("nil metadata source")
	}

	c := &CallCreds{handle: NewHandle(destroy)}
	c.meta = func(ctx context.Context, uri ...string) (map[string]string, error) {
		auth := domain.AuthContext{}
		if len(uri) > 0 {
			auth.ServiceURL = uri[0]
		}
		if ri, ok := credentials.RequestInfoFromContext(ctx); ok {
			auth.MethodName = ri.Method
		}

		var out [domain.MaxSyncMetadata]domain.MetadataEntry
		n, code, details, err := src.GetMetadata(auth, out[:])
		if err != nil {
			return nil, err
		}

		switch code {
		case domain.StatusOK:
		case domain.StatusInvalidArgument:
			return nil, status.Error(codes.InvalidArgument, "invalid authentication metadata")
		case domain.StatusInternal:
			return nil, status.Error(codes.Internal, details)
		default:
			return nil, status.Error(codes.Internal, "unexpected metadata status")
		}

		md := make(map[string]string, n)
		for _, e := range out[:n] {
			key := e.Key.String()
			if strings.HasSuffix(key, "-bin") {
				md[key] = base64.StdEncoding.EncodeToString(e.Value.Bytes())
			} else {
				md[key] = e.Value.String()
			}
		}
		domain.ReleaseEntries(out[:n])
		return md, nil
	}
	return c, nil
}

// NewCompositeCallCreds combines two call credentials. Both inputs are
// retained; on a duplicate metadata key the second credential wins.
// Releasing the composite releases only its own retained references.
func NewCompositeCallCreds(a, b *CallCreds) (*CallCreds, error) {
	if a == nil || b == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("composite call credentials require two credentials")
	}
	if a.Released() || b.Released() {
		return nil, domain.ErrHandleReleased
	}

	a.handle.Retain()
	b.handle.Retain()

	c := &CallCreds{
		handle: NewHandle(func() {
			a.handle.Release()
			b.handle.Release()
		}),
	}
	c.meta = func(ctx context.Context, uri ...string) (map[string]string, error) {
		first, err := a.meta(ctx, uri...)
		if err != nil {
			return nil, err
		}
		second, err := b.meta(ctx, uri...)
		if err != nil {
			return nil, err
		}

		md := make(map[string]string, len(first)+len(second))
		for k, v := range first {
			md[k] = v
		}
		for k, v := range second {
			md[k] = v
		}
		return md, nil
	}
	return c, nil
}

// GetRequestMetadata implements credentials.PerRPCCredentials.
func (c *CallCreds) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	if c.handle.Released() {
		return nil, domain.ErrHandleReleased
	}
	return c.meta(ctx, uri...)
}

// RequireTransportSecurity implements credentials.PerRPCCredentials.
// Authentication metadata never travels over plaintext channels.
func (c *CallCreds) RequireTransportSecurity() bool {
	return true
}

// Retain adds a handle reference.
func (c *CallCreds) Retain() {
	c.handle.Retain()
}

// Release drops a handle reference. The destroy callback runs on the
// final release.
func (c *CallCreds) Release() {
	c.handle.Release()
}

// Released reports whether the underlying handle has been freed.
func (c *CallCreds) Released() bool {
	return c.handle.Released()
}

var _ credentials.PerRPCCredentials = (*CallCreds)(nil)
