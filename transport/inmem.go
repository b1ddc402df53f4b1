package transport

import "net"

// Pipe returns two connected channels over an in-memory stream. It's there
// so protocol tests don't need a real socket.
func Pipe() (Channel, Channel) {
	a, b := net.Pipe()
	return NewConnChannel(a), NewConnChannel(b)
}
