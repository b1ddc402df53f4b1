// Package element implements the remote-specimen proxy element used in
// hybrid simulation: a local stand-in for a test specimen. At each analysis
// step it pushes the prescribed trial state to a remote test controller and
// pulls back the resulting force, stiffness, damping and mass for use in
// the model's equilibrium equations.
package element

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/hybridsim/substructure/domain"
	"github.com/hybridsim/substructure/remote"
	"github.com/hybridsim/substructure/transport"
)

// Config carries the construction-time connection parameters.
type Config struct {
	// Address is the remote controller host. Defaults to loopback.
	Address string

	// Port is the remote controller port.
	Port int

	// Transport selects the channel kind: tcp, udp or tls.
	Transport transport.Kind

	// DataSize is the requested buffer capacity. It is raised to the
	// computed minimum when too small, never lowered.
	DataSize int

	// AddRayleigh blends classical Rayleigh damping into the remote
	// damping reply.
	AddRayleigh bool

	// Timeout bounds the channel dial. Round trips themselves block
	// indefinitely; cancellation belongs to an operational wrapper.
	Timeout time.Duration

	// TLS is required for the tls transport kind.
	TLS *tls.Config

	// Logger receives per-command traces at Debug level.
	Logger *logrus.Entry
}

// DefaultConfig returns the default connection parameters.
func DefaultConfig() Config {
	return Config{
		Address:   "127.0.0.1",
		Port:      8090,
		Transport: transport.TCP,
		DataSize:  256,
		Timeout:   1000 * time.Millisecond,
	}
}

type connState int

const (
	stateUnconnected connState = iota
	stateConnected
	stateFailed
	stateClosed
)

// Element is the remote-specimen proxy. It is not safe for concurrent use:
// one synchronous command is in flight at a time on its dedicated channel.
type Element struct {
	tag     int
	nodeIDs []int
	dofs    [][]int

	numBasic int
	cfg      Config
	logger   *logrus.Entry

	// set at attachment
	dom      domain.Domain
	nodes    []domain.Node
	numDOF   int
	basicDOF []int

	// full-space containers, rebuilt at attachment
	scratch *mat.Dense // shared by tangent stiffness and damping
	kInit   *mat.Dense
	mass    *mat.Dense
	resist  *mat.VecDense
	load    *mat.VecDense

	initStiffDone bool
	massDone      bool

	sess     *remote.Session
	state    connState
	setupErr error

	// basic-space scratch for Update
	db, vb, ab []float64

	// latched for introspection
	qDaq   []float64
	dbCtrl []float64
	vbCtrl []float64
	abCtrl []float64

	alphaM, betaK, betaK0 float64
}

// New creates an element for the given external nodes. dofs holds, per
// node, the ordered local DOF indices participating in this element.
func New(tag int, nodeIDs []int, dofs [][]int, cfg Config) (*Element, error) {
	if len(nodeIDs) == 0 {
		return nil, errors.New("element needs at least one external node")
	}
	if len(nodeIDs) != len(dofs) {
		return nil, errors.Errorf("got %d nodes but %d dof selections", len(nodeIDs), len(dofs))
	}

	numBasic := 0
	for _, sel := range dofs {
		numBasic += len(sel)
	}
	if numBasic == 0 {
		return nil, errors.New("dof selections are empty")
	}

	if cfg.Address == "" {
		cfg.Address = "127.0.0.1"
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.Level = logrus.InfoLevel
		logger = l.WithField("component", "element")
	}
	logger = logger.WithField("tag", tag)

	return &Element{
		tag:      tag,
		nodeIDs:  append([]int(nil), nodeIDs...),
		dofs:     copyDOFs(dofs),
		numBasic: numBasic,
		cfg:      cfg,
		logger:   logger,
		db:       make([]float64, numBasic),
		vb:       make([]float64, numBasic),
		ab:       make([]float64, numBasic),
		qDaq:     make([]float64, numBasic),
		dbCtrl:   make([]float64, numBasic),
		vbCtrl:   make([]float64, numBasic),
		abCtrl:   make([]float64, numBasic),
	}, nil
}

func copyDOFs(dofs [][]int) [][]int {
	out := make([][]int, len(dofs))
	for i, sel := range dofs {
		out[i] = append([]int(nil), sel...)
	}
	return out
}

// Tag returns the element identifier.
func (e *Element) Tag() int { return e.tag }

// NodeIDs returns the external node identifiers.
func (e *Element) NodeIDs() []int { return e.nodeIDs }

// NumExternalNodes returns the number of external nodes.
func (e *Element) NumExternalNodes() int { return len(e.nodeIDs) }

// NumDOF returns the full-space size; zero before attachment.
func (e *Element) NumDOF() int { return e.numDOF }

// NumBasicDOF returns the basic-space size.
func (e *Element) NumBasicDOF() int { return e.numBasic }

// BasicDOF returns a copy of the basic DOF index set; nil before
// attachment.
func (e *Element) BasicDOF() []int {
	if e.basicDOF == nil {
		return nil
	}
	return append([]int(nil), e.basicDOF...)
}

// SetRayleighFactors sets the classical damping coefficients blended into
// the damping matrix when AddRayleigh is enabled: alphaM on the mass,
// betaK on the current tangent, betaK0 on the initial stiffness.
func (e *Element) SetRayleighFactors(alphaM, betaK, betaK0 float64) {
	e.alphaM, e.betaK, e.betaK0 = alphaM, betaK, betaK0
}

// SetDomain attaches the element to a domain, resolving the external nodes
// and rebuilding the DOF mapping and full-space containers. Passing nil
// detaches. A node that cannot be resolved leaves the element inert and
// returns an AttachError; the analysis proceeds without it.
func (e *Element) SetDomain(d domain.Domain) error {
	if d == nil {
		e.dom = nil
		e.nodes = nil
		return nil
	}

	nodes := make([]domain.Node, len(e.nodeIDs))
	for i, id := range e.nodeIDs {
		n := d.Node(id)
		if n == nil {
			e.logger.WithField("node", id).Error("node does not exist in the domain")
			return AttachError{Node: id}
		}
		nodes[i] = n
	}

	numDOF := 0
	for _, n := range nodes {
		numDOF += n.NumDOF()
	}

	basicDOF, err := buildBasicDOF(nodes, e.dofs)
	if err != nil {
		e.logger.WithError(err).Error("invalid dof selection")
		return err
	}

	e.dom = d
	e.nodes = nodes
	e.numDOF = numDOF
	e.basicDOF = basicDOF

	e.scratch = mat.NewDense(numDOF, numDOF, nil)
	e.kInit = mat.NewDense(numDOF, numDOF, nil)
	e.mass = mat.NewDense(numDOF, numDOF, nil)
	e.resist = mat.NewVecDense(numDOF, nil)
	e.load = mat.NewVecDense(numDOF, nil)
	e.initStiffDone = false
	e.massDone = false

	e.logger.WithFields(logrus.Fields{
		"numDOF":      numDOF,
		"numBasicDOF": e.numBasic,
	}).Debug("attached")

	return nil
}

func (e *Element) checkLive() error {
	switch e.state {
	case stateClosed:
		return ErrClosed
	case stateFailed:
		return e.setupErr
	}
	return nil
}

// connect opens the configured channel and performs the sizing handshake.
// Any failure is fatal and never retried.
func (e *Element) connect() error {
	addr := net.JoinHostPort(e.cfg.Address, strconv.Itoa(e.cfg.Port))

	ch, err := transport.Dial(e.cfg.Transport, addr, e.cfg.Timeout, e.cfg.TLS, e.logger)
	if err != nil {
		e.state = stateFailed
		e.setupErr = &SetupError{Err: err}
		e.logger.WithError(err).Error("failed to open channel")
		return e.setupErr
	}

	sess, err := remote.Open(ch, e.numBasic, e.cfg.DataSize, e.logger)
	if err != nil {
		e.state = stateFailed
		e.setupErr = &SetupError{Err: err}
		e.logger.WithError(err).Error("sizing handshake failed")
		return e.setupErr
	}

	e.sess = sess
	e.state = stateConnected
	return nil
}

// Update pushes the trial state to the controller. The connection is
// established on the first call, once buffer sizes are known from the
// finalized DOF mapping.
func (e *Element) Update() error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if e.nodes == nil {
		return ErrNotAttached
	}
	if e.sess == nil {
		if err := e.connect(); err != nil {
			return err
		}
	}

	k := 0
	for i, n := range e.nodes {
		d := n.TrialDisp()
		v := n.TrialVel()
		a := n.TrialAccel()
		for _, sel := range e.dofs[i] {
			e.db[k] = d[sel]
			e.vb[k] = v[sel]
			e.ab[k] = a[sel]
			k++
		}
	}

	return e.sess.SetTrialResponse(e.db, e.vb, e.ab, e.dom.CurrentTime())
}

// CommitState freezes the current trial state as the new reference state,
// locally and remotely.
func (e *Element) CommitState() error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if e.sess == nil {
		return ErrNotConnected
	}
	return e.sess.Commit()
}

// RevertToLastCommit always fails: remote state cannot be rewound.
func (e *Element) RevertToLastCommit() error {
	e.logger.Error("cannot revert to last commit: element shadows an experimental specimen")
	return ErrUnsupported
}

// RevertToStart always fails: remote state cannot be rewound.
func (e *Element) RevertToStart() error {
	e.logger.Error("cannot revert to start: element shadows an experimental specimen")
	return ErrUnsupported
}

func (e *Element) getter() error {
	if err := e.checkLive(); err != nil {
		return err
	}
	if e.sess == nil {
		return ErrNotConnected
	}
	return nil
}

// TangentStiff fetches the tangent stiffness matrix, scattered into full
// space. The returned matrix is element-owned scratch shared with Damp. On
// failure the container keeps its previous value.
func (e *Element) TangentStiff() (*mat.Dense, error) {
	if err := e.getter(); err != nil {
		return nil, err
	}
	m, err := e.sess.Matrix(remote.CmdGetTangentStiff)
	if err != nil {
		return nil, err
	}
	scatterMatrix(e.scratch, m, e.basicDOF)
	return e.scratch, nil
}

// InitialStiff fetches the initial stiffness matrix once and returns the
// cached full-space value afterwards.
func (e *Element) InitialStiff() (*mat.Dense, error) {
	if err := e.getter(); err != nil {
		return nil, err
	}
	if !e.initStiffDone {
		m, err := e.sess.Matrix(remote.CmdGetInitialStiff)
		if err != nil {
			return nil, err
		}
		scatterMatrix(e.kInit, m, e.basicDOF)
		e.initStiffDone = true
	}
	return e.kInit, nil
}

// Mass fetches the mass matrix once and returns the cached full-space
// value afterwards.
func (e *Element) Mass() (*mat.Dense, error) {
	if err := e.getter(); err != nil {
		return nil, err
	}
	if !e.massDone {
		m, err := e.sess.Matrix(remote.CmdGetMass)
		if err != nil {
			return nil, err
		}
		scatterMatrix(e.mass, m, e.basicDOF)
		e.massDone = true
	}
	return e.mass, nil
}

// rayleighDamp builds the classical damping contribution into dst:
// alphaM·M + betaK·Ktangent + betaK0·Kinit. Only nonzero factors cost a
// round trip.
func (e *Element) rayleighDamp(dst *mat.Dense) error {
	dst.Zero()
	var tmp mat.Dense

	if e.alphaM != 0 {
		m, err := e.Mass()
		if err != nil {
			return err
		}
		tmp.Scale(e.alphaM, m)
		dst.Add(dst, &tmp)
	}
	if e.betaK != 0 {
		k, err := e.TangentStiff()
		if err != nil {
			return err
		}
		tmp.Scale(e.betaK, k)
		dst.Add(dst, &tmp)
	}
	if e.betaK0 != 0 {
		k0, err := e.InitialStiff()
		if err != nil {
			return err
		}
		tmp.Scale(e.betaK0, k0)
		dst.Add(dst, &tmp)
	}
	return nil
}

// Damp fetches the damping matrix, scattered into full space, optionally
// blended with the classical Rayleigh contribution. The returned matrix is
// element-owned scratch shared with TangentStiff.
func (e *Element) Damp() (*mat.Dense, error) {
	if err := e.getter(); err != nil {
		return nil, err
	}

	// Rayleigh part first: it may round-trip through TangentStiff, which
	// would clobber a damping reply still sitting in the receive buffer.
	var ray *mat.Dense
	if e.cfg.AddRayleigh {
		ray = mat.NewDense(e.numDOF, e.numDOF, nil)
		if err := e.rayleighDamp(ray); err != nil {
			return nil, err
		}
	}

	m, err := e.sess.Matrix(remote.CmdGetDamp)
	if err != nil {
		return nil, err
	}
	scatterMatrix(e.scratch, m, e.basicDOF)
	if ray != nil {
		e.scratch.Add(e.scratch, ray)
	}
	return e.scratch, nil
}

// ResistingForce fetches the daq force vector, scattered into full space,
// and latches the corresponding control state for introspection. On
// failure the container keeps its previous value.
func (e *Element) ResistingForce() (*mat.VecDense, error) {
	if err := e.getter(); err != nil {
		return nil, err
	}
	q, err := e.sess.Force()
	if err != nil {
		return nil, err
	}

	copy(e.qDaq, q)
	copy(e.dbCtrl, e.sess.CtrlDisp())
	copy(e.vbCtrl, e.sess.CtrlVel())
	copy(e.abCtrl, e.sess.CtrlAccel())

	scatterVector(e.resist, q, e.basicDOF)
	return e.resist, nil
}

// ResistingForceIncInertia returns resisting force − applied load +
// damping·velocity + mass·acceleration, with the nodal velocity and
// acceleration assembled over all node DOFs.
func (e *Element) ResistingForceIncInertia() (*mat.VecDense, error) {
	if _, err := e.ResistingForce(); err != nil {
		return nil, err
	}

	e.resist.SubVec(e.resist, e.load)

	C, err := e.Damp()
	if err != nil {
		return nil, err
	}
	vel := e.gatherNodal(domain.Node.TrialVel)
	var tmp mat.VecDense
	tmp.MulVec(C, vel)
	e.resist.AddVec(e.resist, &tmp)

	M, err := e.Mass()
	if err != nil {
		return nil, err
	}
	accel := e.gatherNodal(domain.Node.TrialAccel)
	tmp.MulVec(M, accel)
	e.resist.AddVec(e.resist, &tmp)

	return e.resist, nil
}

// gatherNodal assembles a per-node state vector over all node DOFs into
// full space.
func (e *Element) gatherNodal(get func(domain.Node) []float64) *mat.VecDense {
	out := mat.NewVecDense(e.numDOF, nil)
	off := 0
	for _, n := range e.nodes {
		for j, v := range get(n) {
			out.SetVec(off+j, v)
		}
		off += n.NumDOF()
	}
	return out
}

// ZeroLoad clears the applied external load.
func (e *Element) ZeroLoad() {
	if e.load != nil {
		e.load.Zero()
	}
}

// AddLoad always fails: there is no recognized load pattern for this
// element.
func (e *Element) AddLoad(load interface{}, factor float64) error {
	e.logger.Error("load type unknown for this element")
	return ErrUnknownLoad
}

// AddInertiaLoadToUnbalance subtracts M·accel from the applied load, where
// accel is the full-space acceleration influence vector. Uses the mass
// cache, fetching it on first need.
func (e *Element) AddInertiaLoadToUnbalance(accel []float64) error {
	if e.nodes == nil {
		return ErrNotAttached
	}
	if len(accel) != e.numDOF {
		return errors.Errorf("acceleration vector has length %d, want %d", len(accel), e.numDOF)
	}
	M, err := e.Mass()
	if err != nil {
		return err
	}
	var tmp mat.VecDense
	tmp.MulVec(M, mat.NewVecDense(e.numDOF, accel))
	e.load.AddScaledVec(e.load, -1, &tmp)
	return nil
}

// Close terminates the remote session exactly once. On a never-connected
// element nothing is sent and no error is reported. Safe to call more than
// once.
func (e *Element) Close() error {
	if e.state == stateClosed {
		return nil
	}
	e.state = stateClosed
	if e.sess == nil {
		return nil
	}
	return e.sess.Close()
}

// Describe writes a human-readable summary of the element.
func (e *Element) Describe(w io.Writer) {
	fmt.Fprintf(w, "Element: %d\n", e.tag)
	fmt.Fprintf(w, "  type: remote specimen proxy\n")
	for i, id := range e.nodeIDs {
		fmt.Fprintf(w, "  Node%d: %d\n", i+1, id)
	}
	fmt.Fprintf(w, "  address: %s, port: %d, transport: %s\n",
		e.cfg.Address, e.cfg.Port, e.cfg.Transport)
	fmt.Fprintf(w, "  addRayleigh: %t\n", e.cfg.AddRayleigh)
}
