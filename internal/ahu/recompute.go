package ahu

import (
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
)

// Recompute runs the whole pipeline: validation, outside state, target,
// simulation, cost and, when a reference is given, the comparison against it.
// The reference is only read; ownership stays with the caller.
func Recompute(in types.Inputs, ref *types.ReferenceSnapshot) (*types.Result, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	outside, err := OutsideState(in)
	if err != nil {
		return nil, err
	}

	target, err := ResolveTarget(in, outside)
	if err != nil {
		return nil, err
	}

	steps := Simulate(in, outside, target)

	cost, err := CalculateCost(steps, in)
	if err != nil {
		return nil, err
	}

	r := &types.Result{
		Outside:  outside,
		Target:   target,
		MassFlow: psychro.MassFlow(in.VolumetricFlow),
		Steps:    steps,
		Ideal:    len(steps) == 0,
		Cost:     cost,
	}
	if ref != nil {
		d := Compare(*ref, r, in)
		r.Reference = &d
	}
	return r, nil
}

// RecomputeForm parses a form and recomputes it.
func RecomputeForm(f Form, ref *types.ReferenceSnapshot) (*types.Result, types.Inputs, error) {
	in, err := ParseInputs(f)
	if err != nil {
		return nil, types.Inputs{}, err
	}
	r, err := Recompute(in, ref)
	return r, in, err
}
