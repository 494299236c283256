package session

import (
	"io"
	"time"

	"stereotax-go/pkg/motion"
	"stereotax-go/pkg/trajectory"
)

// Injection validates the parameters, solves the trajectory, appends the
// record to the registry, and writes one standalone program named from
// the record's label.
func (s *Session) Injection(p InjectionParams) error {
	if err := p.validate(); err != nil {
		return err
	}

	rec := trajectory.SolveInjection(p.Name, p.AP, p.ML, p.DV, p.Angle, p.Overshoot)
	rec.Speed = p.Speed
	rec.DwellBeforeStart = p.DwellBeforeStart
	rec.DwellAfterOvershoot = p.DwellAfterOvershoot
	s.accept(rec)

	name := rec.Label + "_Injection." + s.cfg.Extension
	err := s.writeArtifact(name, func(w io.Writer) error {
		mw := motion.NewWriter(w)
		mw.Header(time.Now(), []motion.HeaderRow{headerRow(rec)})
		s.composeInjection(mw, rec)
		return mw.Err()
	})
	if err != nil {
		return err
	}

	s.logger.WithField("artifact", name).Info("injection program written")
	return nil
}

// Cannula is the placement counterpart of Injection: a single descent to
// the pulled-back target, then an operator-gated stop with the cannula
// left in position.
func (s *Session) Cannula(p CannulaParams) error {
	if err := p.validate(); err != nil {
		return err
	}

	rec := trajectory.SolveCannula(p.Name, p.AP, p.ML, p.DV, p.Angle, p.Overshoot)
	rec.Speed = p.Speed
	rec.DwellBeforeStart = p.DwellBeforeStart
	s.accept(rec)

	name := rec.Label + "_Cannula." + s.cfg.Extension
	err := s.writeArtifact(name, func(w io.Writer) error {
		mw := motion.NewWriter(w)
		mw.Header(time.Now(), []motion.HeaderRow{headerRow(rec)})
		s.composeCannula(mw, rec)
		return mw.Err()
	})
	if err != nil {
		return err
	}

	s.logger.WithField("artifact", name).Info("cannula program written")
	return nil
}

// composeInjection emits the injection sequence: approach the hole at
// travel feed, descend to the skull surface, settle, advance past the
// target to the overshoot point at procedure speed, settle again, pull
// back to the target, halt for the operator, then retract.
func (s *Session) composeInjection(mw *motion.Writer, rec trajectory.InsertionRecord) {
	mw.ResetPosition(0, 0, 0)
	mw.MoveTo(motion.Move{Z: motion.V(s.cfg.TravelHeight), F: motion.V(s.cfg.TravelFeed)})
	mw.MoveTo(motion.Move{X: motion.V(rec.HoleML), Y: motion.V(rec.AP)})
	mw.MoveTo(motion.Move{Z: motion.V(0)})
	mw.Dwell(rec.DwellBeforeStart)
	mw.MoveTo(motion.Move{X: motion.V(rec.OvershootML), Y: motion.V(rec.AP), Z: motion.V(-rec.OvershootDV), F: motion.V(rec.Speed)})
	mw.Dwell(rec.DwellAfterOvershoot)
	// Feed rate unchanged: still the procedure speed.
	mw.MoveTo(motion.Move{X: motion.V(rec.TargetML), Y: motion.V(rec.AP), Z: motion.V(-rec.TargetDV)})
	mw.HaltForOperator()
	mw.MoveTo(motion.Move{X: motion.V(rec.HoleML), Y: motion.V(rec.AP), Z: motion.V(0), F: motion.V(rec.Speed)})
	mw.MoveTo(motion.Move{Z: motion.V(s.cfg.TravelHeight), F: motion.V(s.cfg.TravelFeed)})
}

// composeCannula emits the cannula sequence. Unlike an injection there is
// no overshoot leg: one move places the cannula, the feed rate is reset
// for whoever runs the next program, and the halt leaves it in position.
func (s *Session) composeCannula(mw *motion.Writer, rec trajectory.InsertionRecord) {
	mw.ResetPosition(0, 0, 0)
	mw.MoveTo(motion.Move{Z: motion.V(s.cfg.TravelHeight), F: motion.V(s.cfg.TravelFeed)})
	mw.MoveTo(motion.Move{X: motion.V(rec.HoleML), Y: motion.V(rec.AP)})
	mw.MoveTo(motion.Move{Z: motion.V(0)})
	mw.Dwell(rec.DwellBeforeStart)
	mw.MoveTo(motion.Move{X: motion.V(rec.TargetML), Y: motion.V(rec.AP), Z: motion.V(-rec.TargetDV), F: motion.V(rec.Speed)})
	mw.SetFeedRate(s.cfg.TravelFeed)
	mw.HaltForOperator()
}

func headerRow(rec trajectory.InsertionRecord) motion.HeaderRow {
	return motion.HeaderRow{
		Label: rec.Label,
		ML:    rec.ML,
		AP:    rec.AP,
		DV:    rec.DV,
		Angle: rec.Angle,
	}
}
