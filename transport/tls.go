package transport

import (
	"crypto/tls"
	"crypto/x509"
)

// TLSConfig builds a mutual-TLS configuration for the secured stream kind.
// If trustedCAs is nil the system pool is used.
func TLSConfig(serverName string, certificates []tls.Certificate, trustedCAs *x509.CertPool) (*tls.Config, error) {
	var err error
	if trustedCAs == nil {
		trustedCAs, err = x509.SystemCertPool()
		if err != nil {
			return nil, err
		}
	}
	conf := tls.Config{
		ServerName:   serverName,
		Certificates: certificates,
		RootCAs:      trustedCAs,
		ClientCAs:    trustedCAs,
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		},
	}
	return &conf, nil
}
