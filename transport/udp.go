package transport

import (
	"encoding/binary"
	"math"
	"net"

	"github.com/pkg/errors"
)

// maxDatagram is the payload size at which records are split into separate
// datagrams. Both ends chunk at the same size, so a record is always
// reassembled from whole datagrams.
const maxDatagram = 8192

var errUDPSingleSession = errors.New("udp listener carries a single session")

// packetChannel implements Channel over a UDP socket. On the listening side
// the peer address is learned from the first datagram received.
type packetChannel struct {
	conn net.PacketConn
	peer net.Addr
	buf  []byte
}

func dialUDP(address string) (Channel, error) {
	peer, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, errors.Wrap(err, "resolve udp")
	}
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, errors.Wrap(err, "dial udp")
	}
	return &packetChannel{conn: conn, peer: peer}, nil
}

func (c *packetChannel) send(buf []byte) error {
	if c.peer == nil {
		return errors.New("udp peer not yet known")
	}
	for off := 0; off < len(buf); off += maxDatagram {
		end := off + maxDatagram
		if end > len(buf) {
			end = len(buf)
		}
		if _, err := c.conn.WriteTo(buf[off:end], c.peer); err != nil {
			return errors.Wrap(err, "send datagram")
		}
	}
	return nil
}

func (c *packetChannel) recv(buf []byte) error {
	for off := 0; off < len(buf); {
		n, addr, err := c.conn.ReadFrom(buf[off:])
		if err != nil {
			return errors.Wrap(err, "recv datagram")
		}
		if c.peer == nil {
			c.peer = addr
		}
		off += n
	}
	return nil
}

func (c *packetChannel) SendInts(vals []int32) error {
	c.buf = grow(c.buf, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(c.buf[4*i:], uint32(v))
	}
	return c.send(c.buf)
}

func (c *packetChannel) RecvInts(vals []int32) error {
	c.buf = grow(c.buf, 4*len(vals))
	if err := c.recv(c.buf); err != nil {
		return err
	}
	for i := range vals {
		vals[i] = int32(binary.LittleEndian.Uint32(c.buf[4*i:]))
	}
	return nil
}

func (c *packetChannel) SendFloats(vals []float64) error {
	c.buf = grow(c.buf, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(c.buf[8*i:], math.Float64bits(v))
	}
	return c.send(c.buf)
}

func (c *packetChannel) RecvFloats(vals []float64) error {
	c.buf = grow(c.buf, 8*len(vals))
	if err := c.recv(c.buf); err != nil {
		return err
	}
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(c.buf[8*i:]))
	}
	return nil
}

func (c *packetChannel) Close() error {
	return c.conn.Close()
}

// udpListener hands out a single channel bound to the first peer that sends
// a datagram. A UDP socket carries exactly one session.
type udpListener struct {
	conn     net.PacketConn
	accepted bool
}

func listenUDP(address string) (Listener, error) {
	conn, err := net.ListenPacket("udp", address)
	if err != nil {
		return nil, errors.Wrap(err, "listen udp")
	}
	return &udpListener{conn: conn}, nil
}

func (l *udpListener) Accept() (Channel, error) {
	if l.accepted {
		return nil, errUDPSingleSession
	}
	l.accepted = true
	return &packetChannel{conn: l.conn}, nil
}

func (l *udpListener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

func (l *udpListener) Close() error {
	return l.conn.Close()
}
