// Package membuf provides reference-counted immutable byte buffers.
//
// Buffers are shared across credential and metadata boundaries where
// the lifetime of the bytes must outlive the scope that produced them.
// A buffer is created with one reference, shared with Retain, and freed
// when the last holder calls Release.
package membuf
