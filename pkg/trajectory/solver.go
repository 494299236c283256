// Package trajectory solves stereotaxic insertion geometry: given an
// anatomical target and an approach angle it computes the skull-surface
// entry point, the adjusted target, and the overshoot point, honoring the
// sign and naming conventions of the coordinate frame (ML positive =
// right, DV stored non-negative, angle measured in degrees from vertical).
package trajectory

import "math"

// SolveInjection computes the trajectory record for an injection. The
// needle travels through the requested (ML, DV) target and continues past
// it by the overshoot distance along the same line before settling back.
func SolveInjection(name string, ap, ml, dv, angle, overshoot float64) InsertionRecord {
	rec, rad := solve(Injection, name, ap, ml, dv, angle, overshoot)
	rec.TargetML = rec.ML
	rec.TargetDV = rec.DV
	// Continue straight past the target: deeper, and toward the
	// trajectory's ML side.
	rec.OvershootML = rec.ML - math.Sin(rad)*overshoot
	rec.OvershootDV = rec.DV + math.Cos(rad)*overshoot
	return rec
}

// SolveCannula computes the trajectory record for a cannula placement. The
// cannula itself stops short of the requested target by the overshoot
// distance; the original request becomes the overshoot point, which a
// needle protruding by that distance will reach.
func SolveCannula(name string, ap, ml, dv, angle, overshoot float64) InsertionRecord {
	rec, rad := solve(Cannula, name, ap, ml, dv, angle, overshoot)
	rec.OvershootML = rec.ML
	rec.OvershootDV = rec.DV
	rec.TargetML = rec.ML + math.Sin(rad)*overshoot
	rec.TargetDV = rec.DV - math.Cos(rad)*overshoot
	return rec
}

// solve applies the shared sign conventions and entry-point geometry and
// returns the partially filled record plus the normalized angle in
// radians.
func solve(kind Kind, name string, ap, ml, dv, angle, overshoot float64) (InsertionRecord, float64) {
	dv = math.Abs(dv)

	// The approach always leans toward the medial line: for a right-side
	// target the angle is positive, for a left-side target negative. On
	// the midline the caller's sign picks the side.
	switch {
	case ml > 0:
		angle = math.Abs(angle)
	case ml < 0:
		angle = -math.Abs(angle)
	}

	rad := angle * math.Pi / 180.0
	holeML := math.Tan(rad)*dv + ml

	label := name
	if holeML > 0 {
		label += "_Right"
	} else if holeML < 0 {
		label += "_Left"
	}

	return InsertionRecord{
		Kind:      kind,
		Name:      name,
		Label:     label,
		AP:        ap,
		ML:        ml,
		DV:        dv,
		Angle:     angle,
		HoleML:    holeML,
		Overshoot: overshoot,
	}, rad
}
