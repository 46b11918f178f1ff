// Package fingerprint provides digests over credential key material.
package fingerprint

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
)

// KeyPair computes the identity hash key for a (private key, cert chain)
// pair: a SHA-1 digest over the private key bytes followed by the cert
// chain bytes, hex encoded.
//
// SHA-1 is used as an identity function here, not for integrity; the
// digest only has to be deterministic over the concatenated material.
func KeyPair(privateKey, certChain []byte) string {
	h := sha1.New()
	h.Write(privateKey)
	h.Write(certChain)
	return hex.EncodeToString(h.Sum(nil))
}

// Bytes computes the SHA-1 digest of data, hex encoded.
func Bytes(data []byte) string {
	h := sha1.Sum(data)
	return hex.EncodeToString(h[:])
}

// Equal compares two hash keys in constant time.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
