// Package membuf provides reference-counted immutable byte buffers.
package membuf

import (
	"bytes"
	"sync/atomic"
)

// Buffer is an immutable byte sequence with an atomic reference count.
//
// The contents never change after construction. Multiple goroutines may
// hold references to the same Buffer; Retain and Release are safe for
// concurrent use. Using a Buffer after its last reference has been
// released is a programming error and panics.
type Buffer struct {
	data []byte
	refs atomic.Int32
}

// FromBytes creates a buffer holding a private copy of b.
//
// The returned buffer has a reference count of one; the caller owns that
// reference and must eventually call Release.
func FromBytes(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)

	buf := &Buffer{data: data}
	buf.refs.Store(1)
	return buf
}

// FromString creates a buffer holding a copy of s.
func FromString(s string) *Buffer {
	return FromBytes([]byte(s))
}

// Retain adds a reference and returns the same buffer.
//
// Each Retain must be balanced by exactly one Release. Retaining a
// buffer whose last reference was already released panics.
func (b *Buffer) Retain() *Buffer {
	for {
		refs := b.refs.Load()
		if refs <= 0 {
			panic("membuf: retain of released buffer")
		}
		if b.refs.CompareAndSwap(refs, refs+1) {
			return b
		}
	}
}

// Release drops one reference. The buffer is freed when the count
// reaches zero. Releasing more times than retained panics.
func (b *Buffer) Release() {
	refs := b.refs.Add(-1)
	if refs < 0 {
		panic("membuf: release of freed buffer")
	}
	if refs == 0 {
		b.data = nil
	}
}

// Bytes returns a read-only view of the buffer contents.
//
// The returned slice aliases the buffer's backing array and must not be
// modified or retained past the buffer's last Release.
func (b *Buffer) Bytes() []byte {
	if b.refs.Load() <= 0 {
		panic("membuf: access of released buffer")
	}
	return b.data
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// String returns the contents as a string copy.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Equal reports whether two buffers hold identical bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil {
		return false
	}
	return bytes.Equal(b.Bytes(), o.Bytes())
}

// EqualBytes reports whether the buffer contents equal p.
func (b *Buffer) EqualBytes(p []byte) bool {
	return bytes.Equal(b.Bytes(), p)
}

// Refs returns the current reference count. It is inherently racy under
// concurrent Retain/Release and is intended for tests and diagnostics.
func (b *Buffer) Refs() int32 {
	return b.refs.Load()
}
