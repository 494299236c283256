package trajectory

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func TestVerticalApproach(t *testing.T) {
	// With angle 0 the hole sits directly above the target for any DV.
	for _, dv := range []float64{0, 1.5, 7.3, 12} {
		rec := SolveInjection("cortex", 1.7, 1.0, dv, 0, 0.25)
		if rec.HoleML != 1.0 {
			t.Errorf("DV=%v: holeML = %v, want 1", dv, rec.HoleML)
		}
	}
}

func TestAngleSignFollowsML(t *testing.T) {
	cases := []struct {
		ml, angle float64
		want      float64
	}{
		{1.5, -20, 20},
		{1.5, 20, 20},
		{-1.5, 20, -20},
		{-1.5, -20, -20},
		{0, 15, 15}, // midline: caller controls the side
		{0, -15, -15},
	}
	for _, c := range cases {
		rec := SolveInjection("n", 0, c.ml, 3, c.angle, 0.25)
		if rec.Angle != c.want {
			t.Errorf("ML=%v angle=%v: normalized angle = %v, want %v",
				c.ml, c.angle, rec.Angle, c.want)
		}
	}
}

func TestDVStoredNonNegative(t *testing.T) {
	for _, dv := range []float64{-7.3, 7.3, 0} {
		rec := SolveCannula("n", 0, 1, dv, 0, 0.25)
		if rec.DV != math.Abs(dv) {
			t.Errorf("DV=%v: stored %v, want %v", dv, rec.DV, math.Abs(dv))
		}
	}
}

func TestSideLabel(t *testing.T) {
	cases := []struct {
		ml, dv, angle float64
		want          string
	}{
		{1, 7.3, 0, "n_Right"},
		{-1, 7.3, 0, "n_Left"},
		{0, 3.25, 15, "n_Right"},
		{0, 3.25, -15, "n_Left"},
		{0, 3.25, 0, "n"}, // symmetric midline target: no suffix
	}
	for _, c := range cases {
		rec := SolveInjection("n", 0, c.ml, c.dv, c.angle, 0.25)
		if rec.Label != c.want {
			t.Errorf("ML=%v angle=%v: label %q, want %q", c.ml, c.angle, rec.Label, c.want)
		}
	}
}

func TestInjectionScenario(t *testing.T) {
	rec := SolveInjection("site", 1.7, 1, 7.3, 0, 0.25)
	if rec.HoleML != 1 {
		t.Errorf("holeML = %v, want 1", rec.HoleML)
	}
	if rec.Label != "site_Right" {
		t.Errorf("label = %q, want site_Right", rec.Label)
	}
	if !scalar.EqualWithinAbs(rec.OvershootDV, 7.55, tol) {
		t.Errorf("overshootDV = %v, want 7.55", rec.OvershootDV)
	}
	if !scalar.EqualWithinAbs(rec.OvershootML, 1, tol) {
		t.Errorf("overshootML = %v, want 1", rec.OvershootML)
	}
	if rec.TargetML != 1 || rec.TargetDV != 7.3 {
		t.Errorf("target = (%v, %v), want (1, 7.3)", rec.TargetML, rec.TargetDV)
	}
}

func TestAngledMidlineScenario(t *testing.T) {
	rec := SolveInjection("site", -4.5, 0, 3.25, 15, 0.25)
	if rec.Angle != 15 {
		t.Errorf("angle = %v, want 15 (unchanged on midline)", rec.Angle)
	}
	want := math.Tan(15*math.Pi/180) * 3.25
	if !scalar.EqualWithinAbs(rec.HoleML, want, tol) {
		t.Errorf("holeML = %v, want %v", rec.HoleML, want)
	}
	if rec.Label != "site_Right" {
		t.Errorf("label = %q, want site_Right", rec.Label)
	}
}

func TestCannulaRoundTrip(t *testing.T) {
	// Advancing from the cannula tip by the overshoot distance along the
	// trajectory must land on the originally requested target.
	cases := []struct {
		ml, dv, angle, overshoot float64
	}{
		{0, 3.25, 15, 0.3},
		{1, 7.3, 0, 0.25},
		{-2.1, 4.4, 10, 0.5},
	}
	for _, c := range cases {
		rec := SolveCannula("n", -4.5, c.ml, c.dv, c.angle, c.overshoot)
		rad := rec.Angle * math.Pi / 180
		ml := rec.TargetML - math.Sin(rad)*c.overshoot
		dv := rec.TargetDV + math.Cos(rad)*c.overshoot
		if !scalar.EqualWithinAbs(ml, rec.OvershootML, tol) ||
			!scalar.EqualWithinAbs(dv, rec.OvershootDV, tol) {
			t.Errorf("round trip (%v, %v) != overshoot (%v, %v)",
				ml, dv, rec.OvershootML, rec.OvershootDV)
		}
		if !scalar.EqualWithinAbs(rec.OvershootML, c.ml, tol) ||
			!scalar.EqualWithinAbs(rec.OvershootDV, math.Abs(c.dv), tol) {
			t.Errorf("overshoot (%v, %v) != original (%v, %v)",
				rec.OvershootML, rec.OvershootDV, c.ml, c.dv)
		}
	}
}

func TestCannulaScenario(t *testing.T) {
	rec := SolveCannula("site", -4.5, 0, 3.25, 15, 0.3)
	rad := 15 * math.Pi / 180
	if !scalar.EqualWithinAbs(rec.TargetML, math.Sin(rad)*0.3, tol) {
		t.Errorf("targetML = %v, want %v", rec.TargetML, math.Sin(rad)*0.3)
	}
	if !scalar.EqualWithinAbs(rec.TargetDV, 3.25-math.Cos(rad)*0.3, tol) {
		t.Errorf("targetDV = %v, want %v", rec.TargetDV, 3.25-math.Cos(rad)*0.3)
	}
	if rec.OvershootML != 0 || rec.OvershootDV != 3.25 {
		t.Errorf("overshoot = (%v, %v), want (0, 3.25)", rec.OvershootML, rec.OvershootDV)
	}
}

func TestDrillBeforeOrdering(t *testing.T) {
	recs := []InsertionRecord{
		{Name: "a", AP: -4.5, HoleML: 1},
		{Name: "b", AP: 1.7, HoleML: 2},
		{Name: "c", AP: 1.7, HoleML: -1},
		{Name: "d", AP: 0, HoleML: 0},
	}
	sort.SliceStable(recs, func(i, j int) bool { return DrillBefore(recs[i], recs[j]) })

	for i := 1; i < len(recs); i++ {
		if recs[i].AP > recs[i-1].AP {
			t.Fatalf("AP not non-increasing at %d: %v after %v", i, recs[i].AP, recs[i-1].AP)
		}
		if recs[i].AP == recs[i-1].AP && recs[i].HoleML < recs[i-1].HoleML {
			t.Fatalf("holeML not non-decreasing within AP row at %d", i)
		}
	}
	want := []string{"c", "b", "d", "a"}
	for i, n := range want {
		if recs[i].Name != n {
			t.Errorf("order[%d] = %s, want %s", i, recs[i].Name, n)
		}
	}
}
