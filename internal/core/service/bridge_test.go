// Package service provides the credential operations for CredMesh.
package service

import (
	"errors"
	"testing"

	"github.com/yndnr/credmesh-go/internal/core/domain"
	"github.com/yndnr/credmesh-go/internal/telemetry/metric"
)

func newTestBridge(t *testing.T, cb domain.MetadataCallback) *Bridge {
	t.Helper()

	state, err := NewPluginState(cb)
	if err != nil {
		t.Fatalf("NewPluginState() error = %v", err)
	}
	return NewBridge(state, metric.NewNopRegistry())
}

func TestBridge_GetMetadata_OK(t *testing.T) {
	var seen domain.AuthContext
	b := newTestBridge(t, func(ctx domain.AuthContext) (any, error) {
		seen = ctx
		return map[string]string{"authorization": "Bearer abc"}, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, code, details, err := b.GetMetadata(domain.AuthContext{
		ServiceURL: "https://svc",
		MethodName: "Get",
	}, out[:])

	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if code != domain.StatusOK {
		t.Errorf("code = %v, want %v", code, domain.StatusOK)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if details != "" {
		t.Errorf("details = %q, want empty", details)
	}
	if seen.ServiceURL != "https://svc" || seen.MethodName != "Get" {
		t.Errorf("callback saw context %+v", seen)
	}
	if out[0].Key.String() != "authorization" || out[0].Value.String() != "Bearer abc" {
		t.Errorf("entry = (%q, %q)", out[0].Key.String(), out[0].Value.String())
	}
	domain.ReleaseEntries(out[:n])
}

func TestBridge_GetMetadata_EntriesOutliveLocalTeardown(t *testing.T) {
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		return []domain.MetadataPair{
			{Key: "x-token", Value: "one"},
			{Key: "x-extra", Value: "two"},
		}, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, code, _, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if err != nil || code != domain.StatusOK {
		t.Fatalf("GetMetadata() = (%v, %v)", code, err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	// The bridge's local entries are gone; each output buffer must hold
	// exactly the caller's single reference.
	for i := 0; i < n; i++ {
		if refs := out[i].Key.Refs(); refs != 1 {
			t.Errorf("out[%d].Key refs = %d, want 1", i, refs)
		}
		if refs := out[i].Value.Refs(); refs != 1 {
			t.Errorf("out[%d].Value refs = %d, want 1", i, refs)
		}
	}
	if out[0].Key.String() != "x-token" || out[1].Key.String() != "x-extra" {
		t.Errorf("order not preserved: (%q, %q)", out[0].Key.String(), out[1].Key.String())
	}
	domain.ReleaseEntries(out[:n])
}

func TestBridge_GetMetadata_CallbackError(t *testing.T) {
	cbErr := errors.New("token fetch failed")
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		return nil, cbErr
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, _, _, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if !errors.Is(err, cbErr) {
		t.Errorf("err = %v, want %v", err, cbErr)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
}

func TestBridge_GetMetadata_NonMappingResult(t *testing.T) {
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		return 42, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	_, _, _, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if !errors.Is(err, domain.ErrInvalidCallbackResult) {
		t.Errorf("err = %v, want %v", err, domain.ErrInvalidCallbackResult)
	}
}

func TestBridge_GetMetadata_MalformedEntry(t *testing.T) {
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		return map[string]string{":authority": "evil"}, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, code, details, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if err != nil {
		t.Fatalf("GetMetadata() error = %v, protocol failures must not abort the call", err)
	}
	if code != domain.StatusInvalidArgument {
		t.Errorf("code = %v, want %v", code, domain.StatusInvalidArgument)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	if details != "" {
		t.Errorf("details = %q, want empty", details)
	}
}

func TestBridge_GetMetadata_Overflow(t *testing.T) {
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		pairs := make([]domain.MetadataPair, domain.MaxSyncMetadata+1)
		for i := range pairs {
			pairs[i] = domain.MetadataPair{Key: "k" + string(rune('a'+i)), Value: "v"}
		}
		return pairs, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, code, details, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if code != domain.StatusInternal {
		t.Errorf("code = %v, want %v", code, domain.StatusInternal)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0 (overflow is reported, not truncated)", n)
	}
	if details != overflowDiagnostic {
		t.Errorf("details = %q, want the static diagnostic", details)
	}
}

func TestBridge_GetMetadata_AtCapacity(t *testing.T) {
	b := newTestBridge(t, func(domain.AuthContext) (any, error) {
		pairs := make([]domain.MetadataPair, domain.MaxSyncMetadata)
		for i := range pairs {
			pairs[i] = domain.MetadataPair{Key: "k" + string(rune('a'+i)), Value: "v"}
		}
		return pairs, nil
	})

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	n, code, _, err := b.GetMetadata(domain.AuthContext{}, out[:])
	if err != nil || code != domain.StatusOK {
		t.Fatalf("GetMetadata() = (%v, %v), want OK at exactly full capacity", code, err)
	}
	if n != domain.MaxSyncMetadata {
		t.Errorf("n = %d, want %d", n, domain.MaxSyncMetadata)
	}
	domain.ReleaseEntries(out[:n])
}

func TestBridge_GetMetadata_AfterDestroy(t *testing.T) {
	state, err := NewPluginState(func(domain.AuthContext) (any, error) {
		return map[string]string{}, nil
	})
	if err != nil {
		t.Fatalf("NewPluginState() error = %v", err)
	}
	b := NewBridge(state, nil)
	state.Destroy()

	var out [domain.MaxSyncMetadata]domain.MetadataEntry
	_, _, _, err = b.GetMetadata(domain.AuthContext{}, out[:])
	if !errors.Is(err, domain.ErrStateDestroyed) {
		t.Errorf("err = %v, want %v", err, domain.ErrStateDestroyed)
	}
}

func TestPluginState_NilCallback(t *testing.T) {
	_, err := NewPluginState(nil)
	if !errors.Is(err, domain.ErrNilCallback) {
		t.Errorf("NewPluginState(nil) error = %v, want %v", err, domain.ErrNilCallback)
	}
}

func TestPluginState_DoubleDestroyPanics(t *testing.T) {
	state, err := NewPluginState(func(domain.AuthContext) (any, error) { return nil, nil })
	if err != nil {
		t.Fatalf("NewPluginState() error = %v", err)
	}
	state.Destroy()

	defer func() {
		if recover() == nil {
			t.Error("second Destroy() should panic")
		}
	}()
	state.Destroy()
}
