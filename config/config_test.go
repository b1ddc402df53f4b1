package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()

	if c.Address != DefaultAddress || c.Port != DefaultPort {
		t.Fatalf("unexpected default endpoint %s:%d", c.Address, c.Port)
	}
	if c.Transport != "tcp" {
		t.Fatalf("unexpected default transport %q", c.Transport)
	}
	if c.DataSize != DefaultDataSize {
		t.Fatalf("unexpected default data size %d", c.DataSize)
	}
}

func TestLogLevel(t *testing.T) {
	if LogLevel("info") != logrus.InfoLevel {
		t.Fatal("info maps wrong")
	}
	if LogLevel("warn") != logrus.WarnLevel {
		t.Fatal("warn maps wrong")
	}
	if LogLevel("nonsense") != logrus.DebugLevel {
		t.Fatal("unknown levels should fall back to debug")
	}
}

func TestTestConfigLogger(t *testing.T) {
	c := NewTestConfig(t)
	entry := c.Logger()
	if entry == nil {
		t.Fatal("nil logger entry")
	}
	entry.Debug("logger wired through the test runner")
}
