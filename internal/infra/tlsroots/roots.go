// Package tlsroots provides default trust-anchor management.
package tlsroots

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound is returned when no certificates are found in PEM data.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

	// ErrInvalidPEM is returned when PEM data is invalid.
	ErrInvalidPEM = errors.New("tlsroots: invalid PEM data")
)

// PoolFromPEM builds an x509 certificate pool from PEM-encoded data.
// Multiple certificates in the same bundle are supported.
func PoolFromPEM(pemData []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()

	var certsAdded int
	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}

		pool.AddCert(cert)
		certsAdded++
	}

	if certsAdded == 0 {
		return nil, ErrNoCertsFound
	}

	return pool, nil
}

// CountCertsPEM reports how many certificates a PEM bundle contains.
func CountCertsPEM(pemData []byte) (int, error) {
	var count int
	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		if _, err := x509.ParseCertificate(block.Bytes); err != nil {
			return 0, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		count++
	}
	if count == 0 {
		return 0, ErrNoCertsFound
	}
	return count, nil
}

// SystemPool returns the system root pool, or an empty pool on systems
// where system certs aren't available.
func SystemPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return pool
}

// PoolFromFile builds a certificate pool from a PEM file.
func PoolFromFile(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read cert file %s: %w", path, err)
	}
	return PoolFromPEM(data)
}
