package domain

// FixedNode is an in-memory Node with settable state, used by tests and the
// drive command.
type FixedNode struct {
	ndof   int
	coords []float64
	disp   []float64
	vel    []float64
	accel  []float64
	cDisp  []float64
}

// NewFixedNode creates a node with ndof degrees of freedom, all state zero.
func NewFixedNode(ndof int, coords ...float64) *FixedNode {
	return &FixedNode{
		ndof:   ndof,
		coords: coords,
		disp:   make([]float64, ndof),
		vel:    make([]float64, ndof),
		accel:  make([]float64, ndof),
		cDisp:  make([]float64, ndof),
	}
}

func (n *FixedNode) NumDOF() int { return n.ndof }

func (n *FixedNode) TrialDisp() []float64 { return n.disp }

func (n *FixedNode) TrialVel() []float64 { return n.vel }

func (n *FixedNode) TrialAccel() []float64 { return n.accel }

func (n *FixedNode) Disp() []float64 { return n.cDisp }

func (n *FixedNode) Coords() []float64 { return n.coords }

// SetTrial replaces the trial state. Slices shorter than NumDOF leave the
// remaining entries untouched.
func (n *FixedNode) SetTrial(disp, vel, accel []float64) {
	copy(n.disp, disp)
	copy(n.vel, vel)
	copy(n.accel, accel)
}

// Commit freezes the trial displacement as committed.
func (n *FixedNode) Commit() {
	copy(n.cDisp, n.disp)
}

// InmemDomain is a map-backed Domain for tests and the drive command.
type InmemDomain struct {
	nodes map[int]*FixedNode
	time  float64
}

func NewInmemDomain() *InmemDomain {
	return &InmemDomain{nodes: make(map[int]*FixedNode)}
}

// AddNode registers a node under id, replacing any previous one.
func (d *InmemDomain) AddNode(id int, n *FixedNode) {
	d.nodes[id] = n
}

// FixedNode returns the concrete node under id for direct manipulation.
func (d *InmemDomain) FixedNode(id int) *FixedNode {
	return d.nodes[id]
}

func (d *InmemDomain) Node(id int) Node {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return n
}

func (d *InmemDomain) CurrentTime() float64 { return d.time }

// SetTime advances the simulation clock.
func (d *InmemDomain) SetTime(t float64) { d.time = t }
