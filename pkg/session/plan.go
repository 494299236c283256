package session

import (
	"strings"

	"stereotax-go/pkg/config"
	"stereotax-go/pkg/errors"
)

// RunPlan executes the procedures described by a plan configuration in
// section order: each [injection <name>] and [cannula <name>] section
// runs the matching procedure, and a [drill] section runs the combined
// drilling program. A [rig] section is ignored here so that rig and plan
// may share one file.
func (s *Session) RunPlan(cfg *config.Config) error {
	for _, name := range cfg.GetSectionNames() {
		sec, err := cfg.GetSection(name)
		if err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(name, "injection "):
			p, err := injectionParamsFromSection(sec, strings.TrimSpace(name[len("injection "):]))
			if err != nil {
				return err
			}
			if err := s.Injection(p); err != nil {
				return err
			}

		case strings.HasPrefix(name, "cannula "):
			p, err := cannulaParamsFromSection(sec, strings.TrimSpace(name[len("cannula "):]))
			if err != nil {
				return err
			}
			if err := s.Cannula(p); err != nil {
				return err
			}

		case name == "drill":
			p, err := drillParamsFromSection(sec)
			if err != nil {
				return err
			}
			if err := s.Drill(p); err != nil {
				return err
			}

		case name == "rig":
			// Handled by ConfigFromRig.

		default:
			return errors.PlanSectionError(name, "unrecognized plan section")
		}
	}
	return nil
}

func injectionParamsFromSection(sec *config.Section, name string) (InjectionParams, error) {
	p := DefaultInjectionParams(name)
	zero := 0.0
	var err error
	if p.AP, err = sec.GetFloat("ap", p.AP); err != nil {
		return p, err
	}
	if p.ML, err = sec.GetFloat("ml", p.ML); err != nil {
		return p, err
	}
	if p.DV, err = sec.GetFloat("dv", p.DV); err != nil {
		return p, err
	}
	if p.Angle, err = sec.GetFloat("angle", p.Angle); err != nil {
		return p, err
	}
	if p.Speed, err = sec.GetFloatWithBounds("speed", config.FloatBounds{Above: &zero}, p.Speed); err != nil {
		return p, err
	}
	if p.Overshoot, err = sec.GetFloatWithBounds("overshoot", config.FloatBounds{MinVal: &zero}, p.Overshoot); err != nil {
		return p, err
	}
	if p.DwellBeforeStart, err = sec.GetFloatWithBounds("dwell_before_start", config.FloatBounds{MinVal: &zero}, p.DwellBeforeStart); err != nil {
		return p, err
	}
	if p.DwellAfterOvershoot, err = sec.GetFloatWithBounds("dwell_after_overshoot", config.FloatBounds{MinVal: &zero}, p.DwellAfterOvershoot); err != nil {
		return p, err
	}
	return p, nil
}

func cannulaParamsFromSection(sec *config.Section, name string) (CannulaParams, error) {
	p := DefaultCannulaParams(name)
	zero := 0.0
	var err error
	if p.AP, err = sec.GetFloat("ap", p.AP); err != nil {
		return p, err
	}
	if p.ML, err = sec.GetFloat("ml", p.ML); err != nil {
		return p, err
	}
	if p.DV, err = sec.GetFloat("dv", p.DV); err != nil {
		return p, err
	}
	if p.Angle, err = sec.GetFloat("angle", p.Angle); err != nil {
		return p, err
	}
	if p.Speed, err = sec.GetFloatWithBounds("speed", config.FloatBounds{Above: &zero}, p.Speed); err != nil {
		return p, err
	}
	if p.Overshoot, err = sec.GetFloatWithBounds("overshoot", config.FloatBounds{MinVal: &zero}, p.Overshoot); err != nil {
		return p, err
	}
	if p.DwellBeforeStart, err = sec.GetFloatWithBounds("dwell_before_start", config.FloatBounds{MinVal: &zero}, p.DwellBeforeStart); err != nil {
		return p, err
	}
	return p, nil
}

func drillParamsFromSection(sec *config.Section) (DrillParams, error) {
	p := DefaultDrillParams()
	zero := 0.0
	var err error
	if p.SkullThickness, err = sec.GetFloatWithBounds("skull_thickness", config.FloatBounds{Above: &zero}, p.SkullThickness); err != nil {
		return p, err
	}
	if p.DepthPerCycle, err = sec.GetFloatWithBounds("depth_per_cycle", config.FloatBounds{Above: &zero}, p.DepthPerCycle); err != nil {
		return p, err
	}
	if p.Speed, err = sec.GetFloatWithBounds("speed", config.FloatBounds{Above: &zero}, p.Speed); err != nil {
		return p, err
	}
	if p.DwellBeforeStart, err = sec.GetFloatWithBounds("dwell_before_start", config.FloatBounds{MinVal: &zero}, p.DwellBeforeStart); err != nil {
		return p, err
	}
	if p.DwellBeforeCycle, err = sec.GetFloatWithBounds("dwell_before_cycle", config.FloatBounds{MinVal: &zero}, p.DwellBeforeCycle); err != nil {
		return p, err
	}
	if p.DwellAfterCycle, err = sec.GetFloatWithBounds("dwell_after_cycle", config.FloatBounds{MinVal: &zero}, p.DwellAfterCycle); err != nil {
		return p, err
	}
	return p, nil
}
