package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned for PEM data without a CERTIFICATE block.
var ErrNoCertsFound = errors.New("no certificates found in PEM data")

// ClientConfig returns a TLS config trusting the system roots plus the
// certificates in caFile. An empty caFile returns nil: the transport's
// defaults apply.
func ClientConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if _, err := AppendPEM(pool, data); err != nil {
		return nil, fmt.Errorf("CA file %s: %w", caFile, err)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// AppendPEM adds each CERTIFICATE block of data to pool and returns the
// subjects added. Other block types are skipped.
func AppendPEM(pool *x509.CertPool, data []byte) ([]string, error) {
	var subjects []string
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse certificate %d: %w", len(subjects)+1, err)
		}
		pool.AddCert(cert)
		subjects = append(subjects, cert.Subject.String())
	}
	if len(subjects) == 0 {
		return nil, ErrNoCertsFound
	}
	return subjects, nil
}
