package element

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by revert operations: the element shadows
	// an experimental specimen whose state cannot be rewound.
	ErrUnsupported = errors.New("cannot revert: element shadows an experimental specimen")

	// ErrUnknownLoad is returned by AddLoad for any load pattern.
	ErrUnknownLoad = errors.New("load type unknown for this element")

	// ErrNotAttached is returned when an operation needs a domain.
	ErrNotAttached = errors.New("element is not attached to a domain")

	// ErrNotConnected is returned by getters before the first Update.
	ErrNotConnected = errors.New("no connection to the test controller; call Update first")

	// ErrClosed is returned once the element has been terminated.
	ErrClosed = errors.New("element closed")
)

// AttachError reports a node that could not be resolved at attach time.
// The element stays inert: no DOF mapping is built, no connection opened.
type AttachError struct {
	Node int
}

func (e AttachError) Error() string {
	return fmt.Sprintf("node %d does not exist in the domain", e.Node)
}

// SetupError reports a failed channel open or sizing handshake. It is
// fatal: the element stays unusable and the connection is never retried.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("connection setup failed: %v", e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
