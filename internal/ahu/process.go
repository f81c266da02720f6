// Package ahu simulates the treatment of an air stream by an air handling
// unit (frost-protection preheater, cooling coil with dehumidification and
// reheater) and derives the resulting energy cost.
//
// Everything in this package is a pure function of its arguments.
package ahu

import (
	"errors"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
)

// OutsideState builds the outside-air state. A relative humidity outside 0..100 %
// or a non-finite humidity ratio means the ambient condition cannot exist at the
// given pressure.
func OutsideState(in types.Inputs) (psychro.AirState, error) {
	if !percent(in.OutsideRelativeHumidity) {
		return psychro.AirState{}, &CalcError{Kind: ErrInvalidAirState, Stage: StageOutside, Field: FieldOutsideRelativeHumidity, Err: errPercentRange}
	}
	s := psychro.NewAirState(in.OutsideTemperature, in.OutsideRelativeHumidity, in.Pressure)
	if !s.Valid() || s.HumidityRatio < 0 {
		return psychro.AirState{}, &CalcError{Kind: ErrInvalidAirState, Stage: StageOutside, Field: FieldOutsideRelativeHumidity}
	}
	return s, nil
}

// ResolveTarget derives the desired supply-air state. Without a cooler the air
// cannot be dried, so the target keeps the outside humidity ratio.
func ResolveTarget(in types.Inputs, outside psychro.AirState) (psychro.AirState, error) {
	var target psychro.AirState
	field := FieldSupplyTemperature

	switch {
	case !in.CoolerEnabled:
		target = psychro.AirStateFromRatio(in.SupplyTemperature, outside.HumidityRatio, in.Pressure)
	case in.HumidityMode == types.TargetHumidityRatio:
		field = FieldSupplyHumidityRatio
		target = psychro.AirStateFromRatio(in.SupplyTemperature, in.SupplyHumidityRatio, in.Pressure)
	default:
		field = FieldSupplyRelativeHumidity
		if !percent(in.SupplyRelativeHumidity) {
			return psychro.AirState{}, &CalcError{Kind: ErrInvalidAirState, Stage: StageTarget, Field: field, Err: errPercentRange}
		}
		target = psychro.NewAirState(in.SupplyTemperature, in.SupplyRelativeHumidity, in.Pressure)
	}

	if !target.Valid() || target.HumidityRatio < 0 {
		return psychro.AirState{}, &CalcError{Kind: ErrInvalidAirState, Stage: StageTarget, Field: field}
	}
	return target, nil
}

var errPercentRange = errors.New("relative humidity must be between 0 and 100 %")

func percent(rh float64) bool {
	return rh >= 0 && rh <= 100
}

// Simulate runs the treatment stages in their fixed order (preheat, cool and
// dehumidify, reheat) starting from the outside state and returns the active
// ones. An empty result means the outside air already meets the target.
func Simulate(in types.Inputs, outside, target psychro.AirState) []types.ProcessStep {
	massFlow := psychro.MassFlow(in.VolumetricFlow)
	current := outside
	steps := make([]types.ProcessStep, 0, 3)

	if current.Temperature < in.PreheatSetpoint {
		next := psychro.AirStateFromRatio(in.PreheatSetpoint, current.HumidityRatio, in.Pressure)
		steps = append(steps, types.ProcessStep{
			Kind:       types.StepPreheat,
			Power:      massFlow * (next.Enthalpy - current.Enthalpy),
			StateAfter: next,
		})
		current = next
	}

	if in.CoolerEnabled && current.HumidityRatio > target.HumidityRatio+psychro.Tolerance {
		// the coil saturates the air at the target moisture content
		coilTemp := psychro.DewPoint(target.HumidityRatio, in.Pressure)
		next := psychro.AirStateFromRatio(coilTemp, target.HumidityRatio, in.Pressure)
		steps = append(steps, types.ProcessStep{
			Kind:       types.StepCoolDehumidify,
			Power:      massFlow * (current.Enthalpy - next.Enthalpy),
			Condensate: psychro.CondensateFlow(massFlow, current.HumidityRatio, target.HumidityRatio),
			StateAfter: next,
		})
		current = next
	}

	if current.Temperature < target.Temperature-psychro.Tolerance {
		steps = append(steps, types.ProcessStep{
			Kind:       types.StepReheat,
			Power:      massFlow * (target.Enthalpy - current.Enthalpy),
			StateAfter: target,
		})
	}

	return steps
}
