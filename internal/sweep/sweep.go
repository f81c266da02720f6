// Package sweep recomputes the air handling pipeline across an evenly spaced
// range of one input to show how cost and power respond to it.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"gonum.org/v1/gonum/floats"
)

// MaxSteps bounds the number of points in one sweep
const MaxSteps = 500

// Param names the swept input
type Param string

const (
	ParamVolumetricFlow     Param = "volumetric_flow"
	ParamSupplyTemperature  Param = "supply_temperature"
	ParamSupplyRH           Param = "supply_relative_humidity"
	ParamSupplyRatio        Param = "supply_humidity_ratio"
	ParamOutsideTemperature Param = "outside_temperature"
	ParamOutsideRH          Param = "outside_relative_humidity"
	ParamPreheatSetpoint    Param = "preheat_setpoint"
)

var (
	// ErrUnknownParam is returned for parameters that cannot be swept
	ErrUnknownParam = errors.New("unknown sweep parameter")
	// ErrIgnoredParam is returned when the swept input has no effect on the
	// base inputs, such as a humidity target with the cooler disabled
	ErrIgnoredParam = errors.New("sweep parameter is ignored by the base inputs")
)

// Params lists every sweepable input
func Params() []Param {
	return []Param{
		ParamVolumetricFlow, ParamSupplyTemperature, ParamSupplyRH, ParamSupplyRatio,
		ParamOutsideTemperature, ParamOutsideRH, ParamPreheatSetpoint,
	}
}

// Point is the outcome at one value of the swept input. Err is set instead of
// the numbers when the pipeline aborted at that value.
type Point struct {
	Value        float64 `json:"value"`
	TotalCost    float64 `json:"total_cost"`
	HeatingPower float64 `json:"heating_power"`
	CoolingPower float64 `json:"cooling_power"`
	Condensate   float64 `json:"condensate"`
	Steps        string  `json:"steps"`
	Err          string  `json:"error,omitempty"`
}

// Series is the full sweep result
type Series struct {
	Param  Param   `json:"param"`
	Points []Point `json:"points"`
	// MinIndex is the index of the cheapest valid point, -1 when none is valid
	MinIndex int `json:"min_index"`
}

// Run evaluates the pipeline at steps evenly spaced values from..to of param,
// keeping every other input of base.
func Run(base types.Inputs, param Param, from, to float64, steps int) (*Series, error) {
	if steps < 2 || steps > MaxSteps {
		return nil, fmt.Errorf("steps must be between 2 and %d, got %d", MaxSteps, steps)
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return nil, errors.New("sweep bounds must be finite")
	}

	setter, err := setterFor(param)
	if err != nil {
		return nil, err
	}
	if !base.CoolerEnabled && (param == ParamSupplyRH || param == ParamSupplyRatio) {
		return nil, fmt.Errorf("%w: %s needs the cooler enabled", ErrIgnoredParam, param)
	}

	values := floats.Span(make([]float64, steps), from, to)
	series := &Series{Param: param, Points: make([]Point, steps), MinIndex: -1}

	costs := make([]float64, 0, steps)
	costIndex := make([]int, 0, steps)

	for i, v := range values {
		in := base
		setter(&in, v)

		p := Point{Value: v}
		r, err := ahu.Recompute(in, nil)
		if err != nil {
			p.Err = err.Error()
			series.Points[i] = p
			continue
		}

		p.TotalCost = r.Cost.TotalCost
		p.HeatingPower = r.Cost.HeatingPower
		p.CoolingPower = r.Cost.CoolingPower
		if cool, ok := r.Step(types.StepCoolDehumidify); ok {
			p.Condensate = cool.Condensate
		}
		p.Steps = r.Chain()
		series.Points[i] = p

		costs = append(costs, p.TotalCost)
		costIndex = append(costIndex, i)
	}

	if len(costs) > 0 {
		series.MinIndex = costIndex[floats.MinIdx(costs)]
	}
	return series, nil
}

// Costs returns the total cost of every valid point in order
func (s *Series) Costs() []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Err == "" {
			out = append(out, p.TotalCost)
		}
	}
	return out
}

// ParseParam resolves a parameter name. "flow" is accepted for the volumetric flow.
func ParseParam(s string) (Param, error) {
	if s == "flow" {
		return ParamVolumetricFlow, nil
	}
	p := Param(s)
	if _, err := setterFor(p); err != nil {
		return "", err
	}
	return p, nil
}

func setterFor(param Param) (func(*types.Inputs, float64), error) {
	switch param {
	case ParamVolumetricFlow:
		return func(in *types.Inputs, v float64) { in.VolumetricFlow = v }, nil
	case ParamSupplyTemperature:
		return func(in *types.Inputs, v float64) { in.SupplyTemperature = v }, nil
	case ParamSupplyRH:
		return func(in *types.Inputs, v float64) {
			in.SupplyRelativeHumidity = v
			in.HumidityMode = types.TargetRelativeHumidity
		}, nil
	case ParamSupplyRatio:
		return func(in *types.Inputs, v float64) {
			in.SupplyHumidityRatio = v
			in.HumidityMode = types.TargetHumidityRatio
		}, nil
	case ParamOutsideTemperature:
		return func(in *types.Inputs, v float64) { in.OutsideTemperature = v }, nil
	case ParamOutsideRH:
		return func(in *types.Inputs, v float64) { in.OutsideRelativeHumidity = v }, nil
	case ParamPreheatSetpoint:
		return func(in *types.Inputs, v float64) { in.PreheatSetpoint = v }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParam, param)
}
