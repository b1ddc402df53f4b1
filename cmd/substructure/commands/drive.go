package commands

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hybridsim/substructure/domain"
	"github.com/hybridsim/substructure/element"
	"github.com/hybridsim/substructure/recorder"
	"github.com/hybridsim/substructure/transport"
)

// NewDriveCmd returns the command that drives a proxy element against a
// running controller
func NewDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drive",
		Short:   "Drive a proxy element against a controller",
		PreRunE: loadConfig,
		RunE:    runDrive,
	}
	AddDriveFlags(cmd)
	return cmd
}

// runDrive steps a two-node model through a sinusoidal displacement
// history, pushing the trial state and pulling forces each step.
func runDrive(cmd *cobra.Command, args []string) error {
	kind, err := transport.ParseKind(_config.Sub.Transport)
	if err != nil {
		return err
	}

	dom := domain.NewInmemDomain()
	n1 := domain.NewFixedNode(3, 0, 0)
	n2 := domain.NewFixedNode(3, 1, 0)
	dom.AddNode(1, n1)
	dom.AddNode(2, n2)

	tlsConf, err := buildTLSConfig(&_config.Sub)
	if err != nil {
		return err
	}

	cfg := element.DefaultConfig()
	cfg.TLS = tlsConf
	cfg.Address = _config.Sub.Address
	cfg.Port = _config.Sub.Port
	cfg.Transport = kind
	cfg.DataSize = _config.Sub.DataSize
	cfg.AddRayleigh = _config.Sub.AddRayleigh
	cfg.Timeout = _config.Sub.Timeout
	cfg.Logger = logger.WithField("component", "element")

	ele, err := element.New(1, []int{1, 2}, [][]int{{0, 1}, {0}}, cfg)
	if err != nil {
		return err
	}
	defer ele.Close()

	if err := ele.SetDomain(dom); err != nil {
		return err
	}

	var store *recorder.Store
	if _config.Sub.DB != "" {
		store, err = recorder.NewStore(_config.Sub.DB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	for step := 0; step < _config.Steps; step++ {
		t := float64(step) * _config.DT
		u := 0.01 * math.Sin(10*t)
		v := 0.1 * math.Cos(10*t)

		n1.SetTrial([]float64{u, 0.5 * u, 0}, []float64{v, 0.5 * v, 0}, nil)
		n2.SetTrial([]float64{-u, 0, 0}, []float64{-v, 0, 0}, nil)
		dom.SetTime(t)

		if err := ele.Update(); err != nil {
			return err
		}
		if _, err := ele.ResistingForce(); err != nil {
			return err
		}
		if err := ele.CommitState(); err != nil {
			return err
		}
		n1.Commit()
		n2.Commit()

		q, _ := ele.Response(element.BasicForce)
		db, _ := ele.Response(element.CtrlDisp)
		vb, _ := ele.Response(element.CtrlVel)
		ab, _ := ele.Response(element.CtrlAccel)

		if store != nil {
			if _, err := store.Append(t, db, vb, ab, q); err != nil {
				return err
			}
		}

		logger.WithFields(logrus.Fields{
			"step":  step,
			"time":  t,
			"disp":  db,
			"force": q,
		}).Info("step committed")
	}

	return nil
}

// AddDriveFlags adds flags to the Drive command
func AddDriveFlags(cmd *cobra.Command) {
	cmd.Flags().String("log", _config.Sub.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().StringP("connect", "c", _config.Sub.Address, "Controller host to connect to")
	cmd.Flags().IntP("port", "p", _config.Sub.Port, "Controller port")
	cmd.Flags().String("transport", _config.Sub.Transport, "tcp, udp or tls")
	cmd.Flags().Int("data-size", _config.Sub.DataSize, "Requested buffer capacity in values")
	cmd.Flags().Bool("add-rayleigh", _config.Sub.AddRayleigh, "Blend classical Rayleigh damping")
	cmd.Flags().DurationP("timeout", "t", _config.Sub.Timeout, "Dial timeout")
	cmd.Flags().Int("steps", _config.Steps, "Number of analysis steps")
	cmd.Flags().Float64("dt", _config.DT, "Time step")
	cmd.Flags().String("db", _config.Sub.DB, "Badger directory recording committed steps")
	AddTLSFlags(cmd)
}
