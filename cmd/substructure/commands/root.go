package commands

import (
	"os"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hybridsim/substructure/config"
)

var (
	_config = NewDefaultCLIConfig()
	logger  *logrus.Logger
)

// RootCmd is the root command for substructure
var RootCmd = &cobra.Command{
	Use:              "substructure",
	Short:            "remote-specimen proxy for hybrid simulation",
	TraverseChildren: true,
}

func init() {
	RootCmd.AddCommand(
		NewRunCmd(),
		NewDriveCmd(),
		NewVersionCmd(),
	)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var err error
	_config, err = parseConfig()
	if err != nil {
		return err
	}

	logger = newLogger()
	logger.Level = config.LogLevel(_config.Sub.LogLevel)

	logger.WithFields(logrus.Fields{
		"connect":   _config.Sub.Address,
		"port":      _config.Sub.Port,
		"transport": _config.Sub.Transport,
		"data-size": _config.Sub.DataSize,
		"log":       _config.Sub.LogLevel,
	}).Debug("RUN")

	return nil
}

func parseConfig() (*CLIConfig, error) {
	conf := NewDefaultCLIConfig()
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()

	pathMap := lfshook.PathMap{}

	_, err := os.OpenFile("substructure_info.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open substructure_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = "substructure_info.log"
	}

	_, err = os.OpenFile("substructure_debug.log", os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Info("Failed to open substructure_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = "substructure_debug.log"
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))

	return logger
}
