// Package domain defines the surface the element consumes from the
// surrounding finite-element model. The model owns the nodes; the element
// holds identifiers and re-resolves them at every attachment.
package domain

// Node is one structural node of the model. Slice-returning methods expose
// the node's current state in its local DOF ordering.
type Node interface {
	// NumDOF returns the number of degrees of freedom tracked at this node.
	NumDOF() int

	// TrialDisp returns the trial displacement vector, length NumDOF.
	TrialDisp() []float64

	// TrialVel returns the trial velocity vector, length NumDOF.
	TrialVel() []float64

	// TrialAccel returns the trial acceleration vector, length NumDOF.
	TrialAccel() []float64

	// Disp returns the last committed displacement vector, length NumDOF.
	Disp() []float64

	// Coords returns the node's coordinates.
	Coords() []float64
}

// Domain is the model-side lookup capability.
type Domain interface {
	// Node resolves a node by identifier, or nil when absent.
	Node(id int) Node

	// CurrentTime returns the current simulation time.
	CurrentTime() float64
}
