// Package domain defines the core domain models for CredMesh.
package domain

import (
	"sort"
	"strings"

	"github.com/yndnr/credmesh-go/pkg/membuf"
)

// MaxSyncMetadata is the fixed capacity of the synchronous plugin
// protocol's output buffer. The calling convention allots space for this
// many entries per call; overflow is reported, never truncated.
const MaxSyncMetadata = 4

// AuthContext identifies the call a metadata request is for. It is
// copied by value across the plugin boundary; the strings do not alias
// transport-owned memory.
type AuthContext struct {
	// ServiceURL is the URL of the service the call targets.
	ServiceURL string

	// MethodName is the fully qualified method being invoked.
	MethodName string
}

// MetadataCallback produces authentication metadata for one call.
//
// The result must be an ordered mapping of metadata keys to values: a
// map[string]string, a map[string][]byte, or a []MetadataPair. Map forms
// are ordered by sorted key. Any other shape is a protocol violation.
//
// The callback runs synchronously on the calling goroutine and may block
// it for arbitrary user code. It may be invoked concurrently for
// concurrent calls and must be safe under that exposure.
type MetadataCallback func(ctx AuthContext) (any, error)

// MetadataPair is one key/value item in a callback result, in explicit
// order.
type MetadataPair struct {
	Key   string
	Value string
}

// MetadataEntry is one validated authentication metadata item. The key
// and value buffers are reference-counted; whoever holds an entry owns
// one reference to each and releases them via Release.
type MetadataEntry struct {
	Key   *membuf.Buffer
	Value *membuf.Buffer
}

// Release drops this entry's references to its key and value buffers.
func (e MetadataEntry) Release() {
	if e.Key != nil {
		e.Key.Release()
	}
	if e.Value != nil {
		e.Value.Release()
	}
}

// ReleaseEntries releases every entry in es.
func ReleaseEntries(es []MetadataEntry) {
	for _, e := range es {
		e.Release()
	}
}

// StatusCode is the status surfaced through the synchronous plugin
// protocol. Protocol failures are encoded here rather than returned as
// errors, so the transport can fail a single call without tearing down
// the credential.
type StatusCode int

const (
	// StatusOK indicates metadata was produced and copied out.
	StatusOK StatusCode = iota

	// StatusInvalidArgument indicates the callback result was a mapping
	// but contained a malformed entry.
	StatusInvalidArgument

	// StatusInternal indicates the validated entries exceeded
	// MaxSyncMetadata.
	StatusInternal
)

// String returns the status name.
func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// ParseCallbackResult validates a callback result and converts it into
// an ordered sequence of metadata entries.
//
// Each returned entry carries one reference to its key and value
// buffers, owned by the caller. On any validation failure every
// already-built entry is released before the error is returned.
//
// A non-mapping result fails with ErrInvalidCallbackResult; a mapping
// with a malformed key or value fails with ErrInvalidMetadataEntry.
func ParseCallbackResult(v any) ([]MetadataEntry, error) {
	switch m := v.(type) {
	case map[string]string:
		pairs := make([]MetadataPair, 0, len(m))
		for k, val := range m {
			pairs = append(pairs, MetadataPair{Key: k, Value: val})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
		return buildEntries(pairs)

	case map[string][]byte:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]MetadataPair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, MetadataPair{Key: k, Value: string(m[k])})
		}
		return buildEntries(pairs)

	case []MetadataPair:
		return buildEntries(m)

	default:
		return nil, ErrInvalidCallbackResult
	}
}

func buildEntries(pairs []MetadataPair) ([]MetadataEntry, error) {
	entries := make([]MetadataEntry, 0, len(pairs))
	for _, p := range pairs {
		key := strings.ToLower(p.Key)
		if err := validateEntry(key, []byte(p.Value)); err != nil {
			ReleaseEntries(entries)
			return nil, err
		}
		entries = append(entries, MetadataEntry{
			Key:   membuf.FromString(key),
			Value: membuf.FromString(p.Value),
		})
	}
	return entries, nil
}

// validateEntry checks wire legality of one metadata item. Keys follow
// the gRPC metadata charset; values of non-binary keys must be printable
// ASCII. Binary values belong under "-bin" suffixed keys.
func validateEntry(key string, value []byte) error {
	if key == "" {
		return ErrInvalidMetadataEntry.WithDetails("empty metadata key")
	}
	if key[0] == ':' {
		return ErrInvalidMetadataEntry.WithDetails("reserved metadata key: " + key)
	}
	for i := 0; i < len(key); i++ {
		if !legalKeyByte(key[i]) {
			return ErrInvalidMetadataEntry.WithDetails("illegal metadata key: " + key)
		}
	}
	if !strings.HasSuffix(key, "-bin") {
		for _, b := range value {
			if b < 0x20 || b > 0x7e {
				return ErrInvalidMetadataEntry.WithDetails("non-printable value for key: " + key)
			}
		}
	}
	return nil
}

func legalKeyByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.':
		return true
	default:
		return false
	}
}
