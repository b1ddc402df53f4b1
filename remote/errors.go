package remote

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a command is issued on a terminated session.
var ErrClosed = errors.New("session closed")

// ProtocolError reports a short read or write on an established channel.
// It is fatal to the session: there is no automatic reconnect.
type ProtocolError struct {
	Command Command
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol failure during %s: %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsProtocolError reports whether err stems from a failed round trip.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
