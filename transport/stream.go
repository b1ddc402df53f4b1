package transport

import (
	"encoding/binary"
	"io"
	"math"
	"net"

	"github.com/pkg/errors"
)

// streamChannel implements Channel over any net.Conn. It is used for the TCP
// and TLS kinds, and over net.Pipe in tests.
type streamChannel struct {
	conn net.Conn
	wbuf []byte
	rbuf []byte
}

// NewConnChannel wraps an established stream connection in a Channel.
func NewConnChannel(conn net.Conn) Channel {
	return &streamChannel{conn: conn}
}

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

func (c *streamChannel) SendInts(vals []int32) error {
	c.wbuf = grow(c.wbuf, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(c.wbuf[4*i:], uint32(v))
	}
	if _, err := c.conn.Write(c.wbuf); err != nil {
		return errors.Wrap(err, "send ints")
	}
	return nil
}

func (c *streamChannel) RecvInts(vals []int32) error {
	c.rbuf = grow(c.rbuf, 4*len(vals))
	if _, err := io.ReadFull(c.conn, c.rbuf); err != nil {
		return errors.Wrap(err, "recv ints")
	}
	for i := range vals {
		vals[i] = int32(binary.LittleEndian.Uint32(c.rbuf[4*i:]))
	}
	return nil
}

func (c *streamChannel) SendFloats(vals []float64) error {
	c.wbuf = grow(c.wbuf, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(c.wbuf[8*i:], math.Float64bits(v))
	}
	if _, err := c.conn.Write(c.wbuf); err != nil {
		return errors.Wrap(err, "send floats")
	}
	return nil
}

func (c *streamChannel) RecvFloats(vals []float64) error {
	c.rbuf = grow(c.rbuf, 8*len(vals))
	if _, err := io.ReadFull(c.conn, c.rbuf); err != nil {
		return errors.Wrap(err, "recv floats")
	}
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(c.rbuf[8*i:]))
	}
	return nil
}

func (c *streamChannel) Close() error {
	return c.conn.Close()
}
