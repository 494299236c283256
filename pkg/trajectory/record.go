package trajectory

// Kind identifies the procedure that produced an insertion record.
type Kind int

const (
	// Injection targets the requested coordinate and overshoots slightly
	// past it before settling back.
	Injection Kind = iota

	// Cannula stops short of the requested coordinate so that a needle
	// protruding by the overshoot distance reaches it.
	Cannula
)

// String returns the procedure name for a Kind.
func (k Kind) String() string {
	switch k {
	case Injection:
		return "injection"
	case Cannula:
		return "cannula"
	default:
		return "unknown"
	}
}

// InsertionRecord holds one fully solved insertion trajectory. All fields
// are populated at creation; a record is never modified once it has been
// accepted into a session registry.
type InsertionRecord struct {
	Kind  Kind
	Name  string
	Label string // Name with _Left/_Right appended per the sign of HoleML

	// Requested anatomical target. DV is always stored non-negative and
	// Angle (degrees from vertical) is sign-normalized toward the medial
	// line whenever ML is nonzero.
	AP    float64
	ML    float64
	DV    float64
	Angle float64

	// HoleML is the medial-lateral coordinate where the trajectory
	// crosses the skull surface (DV = 0).
	HoleML float64

	// Final insertion-depth coordinates. For an injection these equal
	// ML/DV; for a cannula they are pulled back along the trajectory by
	// the overshoot distance.
	TargetML float64
	TargetDV float64

	// For an injection, the point slightly beyond the target along the
	// same trajectory. For a cannula, the originally requested target
	// (the point the protruding needle tip will reach).
	OvershootML float64
	OvershootDV float64

	// Procedure parameters carried through unchanged.
	Speed               float64
	Overshoot           float64
	DwellBeforeStart    float64
	DwellAfterOvershoot float64
}

// DrillBefore reports whether a should be drilled before b: anterior
// holes first (AP descending), then left to right within a row (HoleML
// ascending).
func DrillBefore(a, b InsertionRecord) bool {
	if a.AP != b.AP {
		return a.AP > b.AP
	}
	return a.HoleML < b.HoleML
}
