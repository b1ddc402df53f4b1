package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hybridsim/substructure/controller"
	"github.com/hybridsim/substructure/transport"
)

// NewRunCmd returns the command that runs a simulated test controller
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a simulated test controller",
		PreRunE: loadConfig,
		RunE:    runController,
	}
	AddRunFlags(cmd)
	return cmd
}

func runController(cmd *cobra.Command, args []string) error {
	kind, err := transport.ParseKind(_config.Sub.Transport)
	if err != nil {
		return err
	}

	stiff := make([]float64, _config.NDOF)
	massv := make([]float64, _config.NDOF)
	dampv := make([]float64, _config.NDOF)
	for i := range stiff {
		stiff[i] = _config.Stiffness
		massv[i] = _config.Mass
		dampv[i] = _config.Damping
	}

	spec, err := controller.NewDiagonalSpecimen(stiff, massv, dampv)
	if err != nil {
		return err
	}

	tlsConf, err := buildTLSConfig(&_config.Sub)
	if err != nil {
		return err
	}

	srv, err := controller.NewServer(kind, _config.Listen, tlsConf, spec,
		logger.WithField("component", "controller"))
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	srv.Shutdown()
	return nil
}

// AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("log", _config.Sub.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().StringP("listen", "l", _config.Listen, "Listen IP:Port for the controller")
	cmd.Flags().String("transport", _config.Sub.Transport, "tcp, udp or tls")
	cmd.Flags().Int("ndof", _config.NDOF, "Basic-space size of the specimen")
	cmd.Flags().Float64("stiffness", _config.Stiffness, "Diagonal stiffness per basic DOF")
	cmd.Flags().Float64("mass", _config.Mass, "Diagonal mass per basic DOF")
	cmd.Flags().Float64("damping", _config.Damping, "Diagonal damping per basic DOF")
	AddTLSFlags(cmd)
}
