package remote

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MinDataSize returns the smallest legal buffer capacity for a basic-space
// length: the buffer must hold the full control record (command code, three
// basic-space vectors and the time scalar) as well as a square daq matrix.
func MinDataSize(basic int) int {
	n := 1 + 3*basic + 1
	if m := basic * basic; m > n {
		n = m
	}
	return n
}

// SendBuffer is the contiguous transmit region. Offset 0 carries the command
// code; the named accessors alias disjoint sub-slices of the same backing
// array, in the fixed order disp, vel, accel, time.
type SendBuffer struct {
	data  []float64
	basic int
}

// NewSendBuffer allocates a transmit buffer of the given capacity, which
// must be at least MinDataSize(basic).
func NewSendBuffer(basic, size int) *SendBuffer {
	return &SendBuffer{
		data:  make([]float64, size),
		basic: basic,
	}
}

func (b *SendBuffer) SetCommand(c Command) { b.data[0] = float64(c) }

func (b *SendBuffer) Command() Command { return Command(b.data[0]) }

func (b *SendBuffer) Disp() []float64 { return b.data[1 : 1+b.basic] }

func (b *SendBuffer) Vel() []float64 { return b.data[1+b.basic : 1+2*b.basic] }

func (b *SendBuffer) Accel() []float64 { return b.data[1+2*b.basic : 1+3*b.basic] }

func (b *SendBuffer) Time() []float64 { return b.data[1+3*b.basic : 2+3*b.basic] }

// Data returns the whole backing array. Every command transmits it in full.
func (b *SendBuffer) Data() []float64 { return b.data }

func (b *SendBuffer) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// RecvBuffer is the contiguous receive region. The front basic entries are
// the daq force vector; the same storage is reinterpreted row-major as a
// basic×basic matrix for matrix-valued replies.
type RecvBuffer struct {
	data  []float64
	basic int
}

// NewRecvBuffer allocates a receive buffer of the given capacity, which
// must be at least MinDataSize(basic).
func NewRecvBuffer(basic, size int) *RecvBuffer {
	return &RecvBuffer{
		data:  make([]float64, size),
		basic: basic,
	}
}

func (b *RecvBuffer) Force() []float64 { return b.data[:b.basic] }

// Matrix reinterprets the front basic² entries as a basic×basic matrix. The
// returned matrix shares the buffer's backing array.
func (b *RecvBuffer) Matrix() (*mat.Dense, error) {
	n := b.basic * b.basic
	if len(b.data) < n {
		return nil, errors.Errorf("receive buffer too small for %dx%d matrix: %d < %d",
			b.basic, b.basic, len(b.data), n)
	}
	return mat.NewDense(b.basic, b.basic, b.data[:n]), nil
}

func (b *RecvBuffer) Data() []float64 { return b.data }

func (b *RecvBuffer) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}
