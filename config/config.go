// Package config holds the configuration shared by the CLI commands.
package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/hybridsim/substructure/common"
)

// Default configuration values.
const (
	DefaultLogLevel  = "debug"
	DefaultAddress   = "127.0.0.1"
	DefaultPort      = 8090
	DefaultTransport = "tcp"
	DefaultDataSize  = 256
	DefaultTimeout   = 1000 * time.Millisecond
)

// Config contains the configuration properties of the substructure CLI.
type Config struct {
	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// Address is the test controller host the element connects to.
	Address string `mapstructure:"connect"`

	// Port is the test controller port.
	Port int `mapstructure:"port"`

	// Transport selects the channel kind: tcp, udp or tls.
	Transport string `mapstructure:"transport"`

	// DataSize is the requested buffer capacity in values. It is raised to
	// the computed minimum when too small.
	DataSize int `mapstructure:"data-size"`

	// AddRayleigh blends classical Rayleigh damping into the remote
	// damping reply.
	AddRayleigh bool `mapstructure:"add-rayleigh"`

	// Timeout bounds the channel dial.
	Timeout time.Duration `mapstructure:"timeout"`

	// CertFile and KeyFile hold the PEM certificate and key presented on
	// the tls transport. Both are required when Transport is "tls".
	CertFile string `mapstructure:"cert-file"`
	KeyFile  string `mapstructure:"key-file"`

	// CAFile, when set, holds the PEM CA bundle trusted for the peer
	// certificate. The system pool is used otherwise.
	CAFile string `mapstructure:"ca-file"`

	// ServerName is the expected peer certificate name on the tls
	// transport. Defaults to Address.
	ServerName string `mapstructure:"server-name"`

	// DB, when set, is the directory of the badger database recording
	// committed steps.
	DB string `mapstructure:"db"`

	logger *logrus.Logger
}

// NewDefaultConfig returns the default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Address:   DefaultAddress,
		Port:      DefaultPort,
		Transport: DefaultTransport,
		DataSize:  DefaultDataSize,
		Timeout:   DefaultTimeout,
	}
}

// NewTestConfig returns a config with a logger that writes through the
// test runner.
func NewTestConfig(t testing.TB) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t)
	return config
}

// Logger returns a formatted logrus Entry, with prefix set to
// "substructure".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "substructure")
}

// LogLevel maps a configuration string to a logrus level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
