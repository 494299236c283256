package motion

// CommandKind enumerates the closed vocabulary of primitive machine
// commands a program may contain.
type CommandKind int

const (
	// CmdReset declares the robot's current physical location as the
	// given coordinates without moving.
	CmdReset CommandKind = iota

	// CmdMove commands linear motion to the given axis targets.
	CmdMove

	// CmdSetFeed changes the feed rate without motion.
	CmdSetFeed

	// CmdDwell pauses in place for a duration.
	CmdDwell

	// CmdHalt pauses execution until the operator resumes it.
	CmdHalt
)

// String returns the command's program keyword.
func (k CommandKind) String() string {
	switch k {
	case CmdReset:
		return "RESET"
	case CmdMove:
		return "MOVE"
	case CmdSetFeed:
		return "SETFEED"
	case CmdDwell:
		return "DWELL"
	case CmdHalt:
		return "HALT"
	}
	return "UNKNOWN"
}

// Move describes a linear motion to any subset of axis targets. A nil
// axis field leaves that axis where it is; a nil F keeps the feed rate
// that is already in effect.
type Move struct {
	X *float64
	Y *float64
	Z *float64
	F *float64
}

// V returns a pointer to v, for filling optional Move fields inline.
func V(v float64) *float64 {
	return &v
}
