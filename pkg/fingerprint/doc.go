// Package fingerprint provides digests over credential key material.
//
// The digests are identity hash keys: callers compare them to decide
// whether two credentials were built from the same key material without
// comparing the raw secrets themselves.
package fingerprint
