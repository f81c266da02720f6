package types

import (
	"fmt"
	"strings"

	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
)

// HumidityMode selects how the supply-air humidity target is given
type HumidityMode int

const (
	// TargetRelativeHumidity means the target is a relative humidity in %
	TargetRelativeHumidity HumidityMode = iota
	// TargetHumidityRatio means the target is a humidity ratio in g/kg
	TargetHumidityRatio
)

func (m HumidityMode) String() string {
	switch m {
	case TargetRelativeHumidity:
		return "rh"
	case TargetHumidityRatio:
		return "x"
	}
	return fmt.Sprintf("HumidityMode(%d)", int(m))
}

// ParseHumidityMode accepts the short form names ("rh", "x") as well as the
// long ones ("relative_humidity", "humidity_ratio").
func ParseHumidityMode(s string) (HumidityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rh", "relative_humidity", "relativehumidity":
		return TargetRelativeHumidity, nil
	case "x", "humidity_ratio", "humidityratio":
		return TargetHumidityRatio, nil
	}
	return 0, fmt.Errorf("unknown humidity mode %q", s)
}

func (m HumidityMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *HumidityMode) UnmarshalText(b []byte) error {
	parsed, err := ParseHumidityMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Inputs is a validated input record. Pressure is held in Pa.
type Inputs struct {
	OutsideTemperature      float64      `json:"outside_temperature"`
	OutsideRelativeHumidity float64      `json:"outside_relative_humidity"`
	SupplyTemperature       float64      `json:"supply_temperature"`
	SupplyRelativeHumidity  float64      `json:"supply_relative_humidity"`
	SupplyHumidityRatio     float64      `json:"supply_humidity_ratio"`
	VolumetricFlow          float64      `json:"volumetric_flow"`
	CoolerEnabled           bool         `json:"cooler_enabled"`
	PreheatSetpoint         float64      `json:"preheat_setpoint"`
	Pressure                float64      `json:"pressure"`
	HumidityMode            HumidityMode `json:"humidity_mode"`
	HeatPrice               float64      `json:"heat_price"`
	ElectricityPrice        float64      `json:"electricity_price"`
	CoolingEfficiencyRatio  float64      `json:"cooling_efficiency_ratio"`
}

// StepKind identifies a treatment stage. Stages always run in declaration order.
type StepKind int

const (
	StepPreheat StepKind = iota
	StepCoolDehumidify
	StepReheat
)

func (k StepKind) String() string {
	switch k {
	case StepPreheat:
		return "preheat"
	case StepCoolDehumidify:
		return "cool_dehumidify"
	case StepReheat:
		return "reheat"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Label is the human-readable stage name
func (k StepKind) Label() string {
	switch k {
	case StepPreheat:
		return "Preheat (frost protection)"
	case StepCoolDehumidify:
		return "Cool & dehumidify"
	case StepReheat:
		return "Reheat"
	}
	return k.String()
}

// Heating reports whether the stage adds heat to the air
func (k StepKind) Heating() bool {
	return k == StepPreheat || k == StepReheat
}

func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ProcessStep is one active treatment stage. Power is in kW: heat added for
// heating stages and heat removed for the cooling stage. Condensate (kg/h) is
// only set for StepCoolDehumidify.
type ProcessStep struct {
	Kind       StepKind         `json:"kind"`
	Power      float64          `json:"power"`
	Condensate float64          `json:"condensate,omitempty"`
	StateAfter psychro.AirState `json:"state_after"`
}

// CostBreakdown holds powers in kW and costs per hour
type CostBreakdown struct {
	HeatingPower float64 `json:"heating_power"`
	CoolingPower float64 `json:"cooling_power"`
	HeatingCost  float64 `json:"heating_cost"`
	CoolingCost  float64 `json:"cooling_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// ReferenceSnapshot is an immutable copy of a past result used for comparison.
type ReferenceSnapshot struct {
	Cost                   float64 `json:"cost"`
	SupplyTemperature      float64 `json:"supply_temperature"`
	SupplyRelativeHumidity float64 `json:"supply_relative_humidity"`
	VolumetricFlow         float64 `json:"volumetric_flow"`
}

// CostTrend classifies a cost change against the reference
type CostTrend int

const (
	TrendNeutral CostTrend = iota
	TrendSaving
	TrendExpense
)

func (t CostTrend) String() string {
	switch t {
	case TrendSaving:
		return "saving"
	case TrendExpense:
		return "expense"
	}
	return "neutral"
}

func (t CostTrend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ReferenceDelta holds signed differences of the current result minus the reference
type ReferenceDelta struct {
	Cost                   float64   `json:"cost"`
	CostPercent            float64   `json:"cost_percent"`
	Trend                  CostTrend `json:"trend"`
	SupplyTemperature      float64   `json:"supply_temperature"`
	SupplyRelativeHumidity float64   `json:"supply_relative_humidity"`
	VolumetricFlow         float64   `json:"volumetric_flow"`
}

// Result is the complete output of one recomputation
type Result struct {
	Outside   psychro.AirState `json:"outside"`
	Target    psychro.AirState `json:"target"`
	MassFlow  float64          `json:"mass_flow"`
	Steps     []ProcessStep    `json:"steps"`
	Ideal     bool             `json:"ideal"`
	Cost      CostBreakdown    `json:"cost"`
	Reference *ReferenceDelta  `json:"reference,omitempty"`
}

// Supply returns the air state leaving the last active stage
func (r *Result) Supply() psychro.AirState {
	if len(r.Steps) == 0 {
		return r.Outside
	}
	return r.Steps[len(r.Steps)-1].StateAfter
}

// Step returns the step of the given kind, if it is active
func (r *Result) Step(kind StepKind) (ProcessStep, bool) {
	for _, s := range r.Steps {
		if s.Kind == kind {
			return s, true
		}
	}
	return ProcessStep{}, false
}

// Chain describes the active stages in order, e.g. "Preheat → Reheat"
func (r *Result) Chain() string {
	names := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		names[i] = s.Kind.Label()
	}
	return strings.Join(names, " → ")
}
