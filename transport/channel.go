package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Kind selects the concrete byte channel used to reach the test controller.
type Kind int

const (
	// TCP is a plain stream connection.
	TCP Kind = iota

	// UDP is a datagram connection. Records larger than a single datagram
	// are split at a fixed chunk size on send and reassembled on receive.
	UDP

	// TLS is a stream connection secured with mutual TLS.
	TLS
)

func (k Kind) String() string {
	switch k {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	case TLS:
		return "tls"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tcp":
		return TCP, nil
	case "udp":
		return UDP, nil
	case "tls":
		return TLS, nil
	default:
		return TCP, errors.Errorf("unknown transport kind %q", s)
	}
}

// Channel is a reliable, ordered, blocking byte channel carrying records of
// 32-bit integers and 64-bit floats, little-endian. There is no framing
// beyond the record length: both ends must agree on the size of every
// record exchanged. A short read or write is fatal to the channel.
type Channel interface {
	SendInts(vals []int32) error
	RecvInts(vals []int32) error
	SendFloats(vals []float64) error
	RecvFloats(vals []float64) error
	Close() error
}

// Listener accepts inbound channels on the controller side.
type Listener interface {
	Accept() (Channel, error)
	Addr() net.Addr
	Close() error
}

// Dial opens a channel of the given kind to address. The tlsConf argument is
// only consulted for the TLS kind.
func Dial(kind Kind, address string, timeout time.Duration, tlsConf *tls.Config, logger *logrus.Entry) (Channel, error) {
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"kind":    kind.String(),
			"address": address,
		}).Debug("dialing")
	}

	switch kind {
	case TCP:
		conn, err := net.DialTimeout("tcp", address, timeout)
		if err != nil {
			return nil, errors.Wrap(err, "dial tcp")
		}
		return NewConnChannel(conn), nil

	case TLS:
		if tlsConf == nil {
			return nil, errors.New("tls transport requires a tls config")
		}
		dialer := net.Dialer{Timeout: timeout}
		conn, err := tls.DialWithDialer(&dialer, "tcp", address, tlsConf)
		if err != nil {
			return nil, errors.Wrap(err, "dial tls")
		}
		return NewConnChannel(conn), nil

	case UDP:
		return dialUDP(address)

	default:
		return nil, errors.Errorf("unknown transport kind %d", int(kind))
	}
}

// Listen opens a listener of the given kind on address. The tlsConf argument
// is only consulted for the TLS kind.
func Listen(kind Kind, address string, tlsConf *tls.Config) (Listener, error) {
	switch kind {
	case TCP:
		ln, err := net.Listen("tcp", address)
		if err != nil {
			return nil, errors.Wrap(err, "listen tcp")
		}
		return &streamListener{ln: ln}, nil

	case TLS:
		if tlsConf == nil {
			return nil, errors.New("tls transport requires a tls config")
		}
		ln, err := tls.Listen("tcp", address, tlsConf)
		if err != nil {
			return nil, errors.Wrap(err, "listen tls")
		}
		return &streamListener{ln: ln}, nil

	case UDP:
		return listenUDP(address)

	default:
		return nil, errors.Errorf("unknown transport kind %d", int(kind))
	}
}

type streamListener struct {
	ln net.Listener
}

func (l *streamListener) Accept() (Channel, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewConnChannel(conn), nil
}

func (l *streamListener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *streamListener) Close() error {
	return l.ln.Close()
}
