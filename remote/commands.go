package remote

// Command identifies a remote operation on the test controller. The values
// are a versioned wire contract shared with deployed controllers; changing
// them breaks compatibility.
type Command int32

const (
	CmdOpen             Command = 1
	CmdSetup            Command = 2
	CmdSetTrialResponse Command = 3
	CmdExecute          Command = 4
	CmdCommitState      Command = 5
	CmdGetDaqResponse   Command = 6
	CmdGetDisp          Command = 7
	CmdGetVel           Command = 8
	CmdGetAccel         Command = 9
	CmdGetForce         Command = 10
	CmdGetTime          Command = 11
	CmdGetInitialStiff  Command = 12
	CmdGetTangentStiff  Command = 13
	CmdGetDamp          Command = 14
	CmdGetMass          Command = 15
	CmdDie              Command = 99
)

func (c Command) String() string {
	switch c {
	case CmdOpen:
		return "open"
	case CmdSetup:
		return "setup"
	case CmdSetTrialResponse:
		return "setTrialResponse"
	case CmdExecute:
		return "execute"
	case CmdCommitState:
		return "commitState"
	case CmdGetDaqResponse:
		return "getDaqResponse"
	case CmdGetDisp:
		return "getDisp"
	case CmdGetVel:
		return "getVel"
	case CmdGetAccel:
		return "getAccel"
	case CmdGetForce:
		return "getForce"
	case CmdGetTime:
		return "getTime"
	case CmdGetInitialStiff:
		return "getInitialStiff"
	case CmdGetTangentStiff:
		return "getTangentStiff"
	case CmdGetDamp:
		return "getDamp"
	case CmdGetMass:
		return "getMass"
	case CmdDie:
		return "die"
	default:
		return "unknown"
	}
}

// IsMatrixValued reports whether the reply to c is a basic×basic matrix.
func (c Command) IsMatrixValued() bool {
	switch c {
	case CmdGetTangentStiff, CmdGetInitialStiff, CmdGetDamp, CmdGetMass:
		return true
	default:
		return false
	}
}
