package session

import (
	"fmt"

	"stereotax-go/pkg/errors"
)

// InjectionParams are the named parameters of an injection call.
type InjectionParams struct {
	Name                string
	AP                  float64
	ML                  float64
	DV                  float64
	Angle               float64
	Speed               float64
	Overshoot           float64
	DwellBeforeStart    float64
	DwellAfterOvershoot float64
}

// DefaultInjectionParams returns injection parameters with the documented
// defaults.
func DefaultInjectionParams(name string) InjectionParams {
	return InjectionParams{
		Name:                name,
		Speed:               25,
		Overshoot:           0.25,
		DwellBeforeStart:    6,
		DwellAfterOvershoot: 6,
	}
}

func (p InjectionParams) validate() error {
	if p.Name == "" {
		return errors.InvalidParameterError("name", "must not be empty")
	}
	if err := checkPositive("speed", p.Speed); err != nil {
		return err
	}
	if err := checkNonNegative("overshoot", p.Overshoot); err != nil {
		return err
	}
	if err := checkNonNegative("dwell_before_start", p.DwellBeforeStart); err != nil {
		return err
	}
	return checkNonNegative("dwell_after_overshoot", p.DwellAfterOvershoot)
}

// CannulaParams are the named parameters of a cannula call. There is no
// post-overshoot dwell: the cannula is placed once and left in position.
type CannulaParams struct {
	Name             string
	AP               float64
	ML               float64
	DV               float64
	Angle            float64
	Speed            float64
	Overshoot        float64
	DwellBeforeStart float64
}

// DefaultCannulaParams returns cannula parameters with the documented
// defaults.
func DefaultCannulaParams(name string) CannulaParams {
	return CannulaParams{
		Name:             name,
		Speed:            25,
		Overshoot:        0.25,
		DwellBeforeStart: 4,
	}
}

func (p CannulaParams) validate() error {
	if p.Name == "" {
		return errors.InvalidParameterError("name", "must not be empty")
	}
	if err := checkPositive("speed", p.Speed); err != nil {
		return err
	}
	if err := checkNonNegative("overshoot", p.Overshoot); err != nil {
		return err
	}
	return checkNonNegative("dwell_before_start", p.DwellBeforeStart)
}

// DrillParams are the named parameters of a drill call.
type DrillParams struct {
	SkullThickness   float64
	DepthPerCycle    float64
	Speed            float64
	DwellBeforeStart float64
	DwellBeforeCycle float64
	DwellAfterCycle  float64
}

// DefaultDrillParams returns drill parameters with the documented
// defaults.
func DefaultDrillParams() DrillParams {
	return DrillParams{
		SkullThickness:   1,
		DepthPerCycle:    0.2,
		Speed:            50,
		DwellBeforeStart: 4,
		DwellBeforeCycle: 1,
		DwellAfterCycle:  0.5,
	}
}

func (p DrillParams) validate() error {
	if err := checkPositive("skull_thickness", p.SkullThickness); err != nil {
		return err
	}
	if err := checkPositive("depth_per_cycle", p.DepthPerCycle); err != nil {
		return err
	}
	if err := checkPositive("speed", p.Speed); err != nil {
		return err
	}
	if err := checkNonNegative("dwell_before_start", p.DwellBeforeStart); err != nil {
		return err
	}
	if err := checkNonNegative("dwell_before_cycle", p.DwellBeforeCycle); err != nil {
		return err
	}
	return checkNonNegative("dwell_after_cycle", p.DwellAfterCycle)
}

func checkPositive(param string, v float64) error {
	if v <= 0 {
		return errors.InvalidParameterError(param, fmt.Sprintf("must be positive, got %v", v))
	}
	return nil
}

func checkNonNegative(param string, v float64) error {
	if v < 0 {
		return errors.InvalidParameterError(param, fmt.Sprintf("must be non-negative, got %v", v))
	}
	return nil
}
