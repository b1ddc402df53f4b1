package commands

import (
	"github.com/hybridsim/substructure/config"
)

// CLIConfig contains configuration for the Run and Drive commands
type CLIConfig struct {
	Sub       config.Config `mapstructure:",squash"`
	Listen    string        `mapstructure:"listen"`
	NDOF      int           `mapstructure:"ndof"`
	Stiffness float64       `mapstructure:"stiffness"`
	Mass      float64       `mapstructure:"mass"`
	Damping   float64       `mapstructure:"damping"`
	Steps     int           `mapstructure:"steps"`
	DT        float64       `mapstructure:"dt"`
}

// NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Sub:       *config.NewDefaultConfig(),
		Listen:    "127.0.0.1:8090",
		NDOF:      3,
		Stiffness: 100.0,
		Mass:      1.0,
		Damping:   0.5,
		Steps:     10,
		DT:        0.01,
	}
}
