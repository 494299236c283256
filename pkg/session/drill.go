package session

import (
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"stereotax-go/pkg/errors"
	"stereotax-go/pkg/log"
	"stereotax-go/pkg/motion"
	"stereotax-go/pkg/trajectory"
)

// Drill re-sorts the registry for an anterior-to-posterior sweep and
// writes one combined drilling program covering every hole planned so
// far. The registry order itself changes; record contents do not.
func (s *Session) Drill(p DrillParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	if len(s.records) == 0 {
		s.mu.Unlock()
		return errors.InvalidParameterError("targets", "no insertion targets planned")
	}
	sort.SliceStable(s.records, func(i, j int) bool {
		return trajectory.DrillBefore(s.records[i], s.records[j])
	})
	records := make([]trajectory.InsertionRecord, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	name := drillArtifactName(records, s.cfg.Extension)
	err := s.writeArtifact(name, func(w io.Writer) error {
		mw := motion.NewWriter(w)
		rows := make([]motion.HeaderRow, len(records))
		for i, rec := range records {
			rows[i] = headerRow(rec)
		}
		mw.Header(time.Now(), rows)
		mw.ResetPosition(0, 0, 0)
		for _, rec := range records {
			s.drillHole(mw, rec, p)
		}
		return mw.Err()
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"artifact": name,
		"holes":    len(records),
	}).Info("drilling program written")
	return nil
}

// drillHole emits one hole: approach at travel feed, switch to drilling
// speed, touch the skull, run the cyclic drill to exactly the skull
// thickness, retract, and halt for the operator before the next hole.
//
// Per hole the sequencer passes through Approaching, TouchingSurface,
// zero or more CyclicDrill states, TerminalCycle, Retracting, and
// HaltedForOperator.
func (s *Session) drillHole(mw *motion.Writer, rec trajectory.InsertionRecord, p DrillParams) {
	mw.MoveTo(motion.Move{X: motion.V(rec.HoleML), Y: motion.V(rec.AP), Z: motion.V(s.cfg.TravelHeight), F: motion.V(s.cfg.TravelFeed)})
	mw.SetFeedRate(p.Speed)
	mw.Dwell(p.DwellBeforeStart)
	mw.MoveTo(motion.Move{Z: motion.V(0)})

	thickness := math.Abs(p.SkullThickness)
	depth := 0.0

	// Advance one cycle at a time while a full step still stops short of
	// the target depth. Each cycle retracts to the surface to clear
	// debris.
	for depth-p.DepthPerCycle > -thickness {
		mw.Dwell(p.DwellBeforeCycle)
		depth -= p.DepthPerCycle
		mw.MoveTo(motion.Move{Z: motion.V(depth)})
		mw.Dwell(p.DwellAfterCycle)
		mw.MoveTo(motion.Move{Z: motion.V(0)})
	}

	// Terminal cycle: always runs, and goes directly to the full
	// thickness. Its step is whatever remains, a full step in the
	// exact-multiple case.
	mw.Dwell(p.DwellBeforeCycle)
	mw.MoveTo(motion.Move{Z: motion.V(-thickness)})
	mw.Dwell(p.DwellAfterCycle)
	mw.MoveTo(motion.Move{Z: motion.V(0)})

	mw.MoveTo(motion.Move{Z: motion.V(s.cfg.TravelHeight), F: motion.V(s.cfg.TravelFeed)})
	mw.HaltForOperator()
}

// drillArtifactName joins the deduplicated record names in drilling
// order.
func drillArtifactName(records []trajectory.InsertionRecord, ext string) string {
	seen := make(map[string]struct{}, len(records))
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Name]; ok {
			continue
		}
		seen[rec.Name] = struct{}{}
		parts = append(parts, rec.Name)
	}
	return strings.Join(parts, "_") + "_Holes." + ext
}
