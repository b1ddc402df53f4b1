package commands

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hybridsim/substructure/config"
	"github.com/hybridsim/substructure/transport"
)

// buildTLSConfig loads the certificate material named in the configuration.
// It returns nil for the plain transports.
func buildTLSConfig(c *config.Config) (*tls.Config, error) {
	if c.Transport != transport.TLS.String() {
		return nil, nil
	}
	if c.CertFile == "" || c.KeyFile == "" {
		return nil, errors.New("tls transport requires --cert-file and --key-file")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading tls certificate")
	}

	var pool *x509.CertPool
	if c.CAFile != "" {
		pem, err := ioutil.ReadFile(c.CAFile)
		if err != nil {
			return nil, errors.Wrap(err, "reading ca bundle")
		}
		pool = x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.Errorf("no certificates found in %s", c.CAFile)
		}
	}

	serverName := c.ServerName
	if serverName == "" {
		serverName = c.Address
	}

	return transport.TLSConfig(serverName, []tls.Certificate{cert}, pool)
}

// AddTLSFlags adds the certificate flags shared by Run and Drive
func AddTLSFlags(cmd *cobra.Command) {
	cmd.Flags().String("cert-file", _config.Sub.CertFile, "PEM certificate for the tls transport")
	cmd.Flags().String("key-file", _config.Sub.KeyFile, "PEM key for the tls transport")
	cmd.Flags().String("ca-file", _config.Sub.CAFile, "PEM CA bundle trusted for the peer certificate")
	cmd.Flags().String("server-name", _config.Sub.ServerName, "Expected peer certificate name")
}
