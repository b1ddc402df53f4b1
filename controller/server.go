// Package controller implements the server side of the remote-test
// protocol: a simulated test controller serving a specimen model. It backs
// integration tests and the run command; a real laboratory controller
// replaces it in production.
package controller

import (
	"crypto/tls"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hybridsim/substructure/remote"
	"github.com/hybridsim/substructure/transport"
)

// Server accepts proxy-element connections and serves the command protocol
// against a specimen. Sessions are handled one at a time: the protocol is
// strictly ordered, and a specimen has one physical state.
type Server struct {
	ln     transport.Listener
	spec   Specimen
	logger *logrus.Entry

	mu      sync.Mutex
	counts  map[remote.Command]int
	closing bool

	wg sync.WaitGroup
}

// NewServer starts listening and serving in the background.
func NewServer(kind transport.Kind, address string, tlsConf *tls.Config, spec Specimen, logger *logrus.Entry) (*Server, error) {
	ln, err := transport.Listen(kind, address, tlsConf)
	if err != nil {
		return nil, errors.Wrap(err, "controller listen")
	}

	s := &Server{
		ln:     ln,
		spec:   spec,
		logger: logger,
		counts: make(map[remote.Command]int),
	}

	s.wg.Add(1)
	go s.acceptLoop()

	logger.WithFields(logrus.Fields{
		"kind":    kind.String(),
		"address": ln.Addr().String(),
		"basic":   spec.BasicDOF(),
	}).Info("controller listening")

	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Counts returns how many times each command has been served. Used by
// tests to observe round trips.
func (s *Server) Counts() map[remote.Command]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[remote.Command]int, len(s.counts))
	for c, n := range s.counts {
		out[c] = n
	}
	return out
}

func (s *Server) count(c remote.Command) {
	s.mu.Lock()
	s.counts[c]++
	s.mu.Unlock()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Shutdown stops accepting and waits for the serve loop to drain.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.ln.Close()
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		ch, err := s.ln.Accept()
		if err != nil {
			if !s.isClosing() {
				s.logger.WithError(err).Debug("accept loop done")
			}
			return
		}
		s.Serve(ch)
	}
}

// Serve runs one session on an accepted channel: the sizing handshake,
// then the command loop until die or channel teardown.
func (s *Server) Serve(ch transport.Channel) {
	defer ch.Close()

	id := make([]int32, 11)
	if err := ch.RecvInts(id); err != nil {
		s.logger.WithError(err).Error("sizing handshake failed")
		return
	}

	basic := int(id[0])
	dataSize := int(id[10])
	if basic != s.spec.BasicDOF() {
		s.logger.WithFields(logrus.Fields{
			"got":  basic,
			"want": s.spec.BasicDOF(),
		}).Error("basic-space size mismatch")
		return
	}
	if dataSize < remote.MinDataSize(basic) {
		s.logger.WithField("dataSize", dataSize).Error("data size below minimum")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"basic":    basic,
		"dataSize": dataSize,
	}).Debug("session open")

	// the transmit layout is shared with the client: parse with the same
	// buffer views
	in := remote.NewSendBuffer(basic, dataSize)
	out := remote.NewRecvBuffer(basic, dataSize)
	sq := basic * basic

	for {
		if err := ch.RecvFloats(in.Data()); err != nil {
			s.logger.WithError(err).Debug("session torn down")
			return
		}

		cmd := in.Command()
		s.count(cmd)
		s.logger.WithField("command", cmd.String()).Debug("serve")

		switch cmd {
		case remote.CmdSetTrialResponse:
			s.spec.SetTrial(in.Disp(), in.Vel(), in.Accel(), in.Time()[0])

		case remote.CmdCommitState:
			s.spec.Commit()

		case remote.CmdGetForce:
			out.Zero()
			s.spec.Force(out.Force())
			if err := ch.SendFloats(out.Data()); err != nil {
				s.logger.WithError(err).Error("reply failed")
				return
			}

		case remote.CmdGetTangentStiff, remote.CmdGetInitialStiff,
			remote.CmdGetDamp, remote.CmdGetMass:
			out.Zero()
			dst := out.Data()[:sq]
			switch cmd {
			case remote.CmdGetTangentStiff:
				s.spec.TangentStiff(dst)
			case remote.CmdGetInitialStiff:
				s.spec.InitialStiff(dst)
			case remote.CmdGetDamp:
				s.spec.Damp(dst)
			case remote.CmdGetMass:
				s.spec.Mass(dst)
			}
			if err := ch.SendFloats(out.Data()); err != nil {
				s.logger.WithError(err).Error("reply failed")
				return
			}

		case remote.CmdDie:
			s.logger.Debug("die received")
			return

		default:
			s.logger.WithField("command", cmd.String()).Warn("unhandled command")
		}
	}
}
