package remote

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/hybridsim/substructure/transport"
)

// handshakeLen is the number of int32s in the sizing record: five control
// sizes (disp, vel, accel, force, time), five daq sizes in the same order,
// and the agreed buffer capacity.
const handshakeLen = 11

// Session drives the synchronous command protocol on an established
// channel. Exactly one command is in flight at a time; every command
// transmits the full send buffer, and query commands block until the full
// receive buffer has been read.
type Session struct {
	ch     transport.Channel
	send   *SendBuffer
	recv   *RecvBuffer
	logger *logrus.Entry
	closed bool
}

// Open performs the one-time sizing handshake on ch and returns a live
// session. A requested dataSize below the computed minimum is silently
// raised (logged at Warn). A handshake failure is fatal: the channel is
// closed and no session is returned.
func Open(ch transport.Channel, basic, dataSize int, logger *logrus.Entry) (*Session, error) {
	if min := MinDataSize(basic); dataSize < min {
		logger.WithFields(logrus.Fields{
			"requested": dataSize,
			"minimum":   min,
		}).Warn("raising data size to computed minimum")
		dataSize = min
	}

	id := make([]int32, handshakeLen)
	id[0] = int32(basic) // ctrl disp
	id[1] = int32(basic) // ctrl vel
	id[2] = int32(basic) // ctrl accel
	id[4] = 1            // ctrl time
	id[8] = int32(basic) // daq force
	id[10] = int32(dataSize)

	if err := ch.SendInts(id); err != nil {
		ch.Close()
		return nil, errors.Wrap(err, "sizing handshake")
	}

	logger.WithFields(logrus.Fields{
		"basic":    basic,
		"dataSize": dataSize,
	}).Debug("session open")

	return &Session{
		ch:     ch,
		send:   NewSendBuffer(basic, dataSize),
		recv:   NewRecvBuffer(basic, dataSize),
		logger: logger,
	}, nil
}

// Basic returns the basic-space length agreed at the handshake.
func (s *Session) Basic() int { return s.send.basic }

// DataSize returns the agreed buffer capacity.
func (s *Session) DataSize() int { return len(s.send.data) }

func (s *Session) sendCommand(c Command) error {
	if s.closed {
		return ErrClosed
	}
	s.send.SetCommand(c)
	s.logger.WithField("command", c.String()).Debug("send")
	if err := s.ch.SendFloats(s.send.Data()); err != nil {
		return &ProtocolError{Command: c, Err: err}
	}
	return nil
}

func (s *Session) recvReply(c Command) error {
	if err := s.ch.RecvFloats(s.recv.Data()); err != nil {
		return &ProtocolError{Command: c, Err: err}
	}
	return nil
}

// SetTrialResponse pushes the trial state. disp, vel and accel must have
// basic-space length. No reply is expected.
func (s *Session) SetTrialResponse(disp, vel, accel []float64, t float64) error {
	copy(s.send.Disp(), disp)
	copy(s.send.Vel(), vel)
	copy(s.send.Accel(), accel)
	s.send.Time()[0] = t
	return s.sendCommand(CmdSetTrialResponse)
}

// Force performs a getForce round trip and returns the daq force vector as
// a view of the receive buffer, valid until the next round trip.
func (s *Session) Force() ([]float64, error) {
	if err := s.sendCommand(CmdGetForce); err != nil {
		return nil, err
	}
	if err := s.recvReply(CmdGetForce); err != nil {
		return nil, err
	}
	return s.recv.Force(), nil
}

// Matrix performs a matrix-valued round trip and returns the reply viewed
// row-major as a basic×basic matrix backed by the receive buffer.
func (s *Session) Matrix(c Command) (*mat.Dense, error) {
	if !c.IsMatrixValued() {
		return nil, errors.Errorf("command %s is not matrix-valued", c)
	}
	if err := s.sendCommand(c); err != nil {
		return nil, err
	}
	if err := s.recvReply(c); err != nil {
		return nil, err
	}
	return s.recv.Matrix()
}

// Commit freezes the current trial state as the controller's new reference
// state. No reply is expected.
func (s *Session) Commit() error {
	return s.sendCommand(CmdCommitState)
}

// CtrlDisp returns the displacement region of the transmit buffer: the last
// pushed trial state.
func (s *Session) CtrlDisp() []float64 { return s.send.Disp() }

// CtrlVel returns the velocity region of the transmit buffer.
func (s *Session) CtrlVel() []float64 { return s.send.Vel() }

// CtrlAccel returns the acceleration region of the transmit buffer.
func (s *Session) CtrlAccel() []float64 { return s.send.Accel() }

// Close sends the terminate command, for which no reply is expected, and
// releases the channel. Safe to call more than once; only the first call
// sends anything.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.send.SetCommand(CmdDie)
	s.logger.WithField("command", CmdDie.String()).Debug("send")
	// best effort: the channel may already be dead
	s.ch.SendFloats(s.send.Data())

	return s.ch.Close()
}
