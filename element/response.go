package element

import (
	"fmt"

	"github.com/pkg/errors"
)

// ResponseKind identifies a named introspection channel.
type ResponseKind int

const (
	// GlobalForce is the resisting force in global coordinates.
	GlobalForce ResponseKind = iota + 1

	// LocalForce is the resisting force in local coordinates. For this
	// element local and global coincide.
	LocalForce

	// BasicForce is the last daq force in basic space.
	BasicForce

	// CtrlDisp is the control displacement latched at the last force
	// acquisition.
	CtrlDisp

	// CtrlVel is the latched control velocity.
	CtrlVel

	// CtrlAccel is the latched control acceleration.
	CtrlAccel
)

// ResponseKindFor maps a recorder name to its channel. The accepted
// aliases follow the conventional element recorder vocabulary.
func ResponseKindFor(name string) (ResponseKind, bool) {
	switch name {
	case "force", "forces", "globalForce", "globalForces":
		return GlobalForce, true
	case "localForce", "localForces":
		return LocalForce, true
	case "basicForce", "basicForces", "daqForce", "daqForces":
		return BasicForce, true
	case "defo", "deformation", "deformations",
		"basicDefo", "basicDeformation", "basicDeformations",
		"ctrlDisp", "ctrlDisplacement", "ctrlDisplacements":
		return CtrlDisp, true
	case "ctrlVel", "ctrlVelocity", "ctrlVelocities":
		return CtrlVel, true
	case "ctrlAccel", "ctrlAcceleration", "ctrlAccelerations":
		return CtrlAccel, true
	}
	return 0, false
}

// ResponseLabels returns the per-component labels of a channel.
func (e *Element) ResponseLabels(k ResponseKind) []string {
	var prefix string
	n := e.numBasic
	switch k {
	case GlobalForce:
		prefix, n = "P", e.numDOF
	case LocalForce:
		prefix, n = "p", e.numDOF
	case BasicForce:
		prefix = "q"
	case CtrlDisp:
		prefix = "db"
	case CtrlVel:
		prefix = "vb"
	case CtrlAccel:
		prefix = "ab"
	default:
		return nil
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return labels
}

// Response returns the current value of a channel. GlobalForce and
// LocalForce perform a force round trip; the basic-space channels return
// latched state without touching the network.
func (e *Element) Response(k ResponseKind) ([]float64, error) {
	switch k {
	case GlobalForce, LocalForce:
		f, err := e.ResistingForce()
		if err != nil {
			return nil, err
		}
		out := make([]float64, f.Len())
		for i := range out {
			out[i] = f.AtVec(i)
		}
		return out, nil
	case BasicForce:
		return append([]float64(nil), e.qDaq...), nil
	case CtrlDisp:
		return append([]float64(nil), e.dbCtrl...), nil
	case CtrlVel:
		return append([]float64(nil), e.vbCtrl...), nil
	case CtrlAccel:
		return append([]float64(nil), e.abCtrl...), nil
	default:
		return nil, errors.Errorf("unknown response kind %d", int(k))
	}
}
