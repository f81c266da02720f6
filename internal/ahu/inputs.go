package ahu

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
)

// Form field names, as submitted by the presentation layer
const (
	FieldOutsideTemperature      = "outside_temperature"
	FieldOutsideRelativeHumidity = "outside_relative_humidity"
	FieldSupplyTemperature       = "supply_temperature"
	FieldSupplyRelativeHumidity  = "supply_relative_humidity"
	FieldSupplyHumidityRatio     = "supply_humidity_ratio"
	FieldVolumetricFlow          = "volumetric_flow"
	FieldCoolerEnabled           = "cooler_enabled"
	FieldPreheatSetpoint         = "preheat_setpoint"
	FieldBarometricPressure      = "barometric_pressure"
	FieldHumidityMode            = "humidity_mode"
	FieldHeatPrice               = "heat_price"
	FieldElectricityPrice        = "electricity_price"
	FieldCoolingEfficiencyRatio  = "cooling_efficiency_ratio"
)

// Form holds raw, string-valued input fields keyed by field name.
// Barometric pressure is given in hPa.
type Form map[string]string

// Merge returns a copy of f with every non-empty value of other applied on top
func (f Form) Merge(other Form) Form {
	merged := make(Form, len(f)+len(other))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range other {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}
	return merged
}

var (
	errNotFinite = errors.New("value is not a finite number")
	errNegative  = errors.New("value must not be negative")
)

// ParseInputs validates a form and converts it into an input record.
// Which humidity target is required depends on the cooler flag and the humidity
// mode; with the cooler disabled no humidity target is read at all.
func ParseInputs(f Form) (types.Inputs, error) {
	var (
		in  types.Inputs
		err error
	)

	numbers := []struct {
		field string
		dst   *float64
	}{
		{FieldOutsideTemperature, &in.OutsideTemperature},
		{FieldOutsideRelativeHumidity, &in.OutsideRelativeHumidity},
		{FieldSupplyTemperature, &in.SupplyTemperature},
		{FieldVolumetricFlow, &in.VolumetricFlow},
		{FieldPreheatSetpoint, &in.PreheatSetpoint},
		{FieldBarometricPressure, &in.Pressure},
		{FieldHeatPrice, &in.HeatPrice},
		{FieldElectricityPrice, &in.ElectricityPrice},
		{FieldCoolingEfficiencyRatio, &in.CoolingEfficiencyRatio},
	}
	for _, n := range numbers {
		if *n.dst, err = f.number(n.field); err != nil {
			return types.Inputs{}, err
		}
	}
	in.Pressure *= 100

	raw, ok := f.value(FieldCoolerEnabled)
	if !ok {
		return types.Inputs{}, missing(FieldCoolerEnabled)
	}
	if in.CoolerEnabled, err = parseBool(raw); err != nil {
		return types.Inputs{}, invalid(FieldCoolerEnabled, err)
	}

	if !in.CoolerEnabled {
		in.HumidityMode = types.TargetRelativeHumidity
		return in, nil
	}

	raw, ok = f.value(FieldHumidityMode)
	if !ok {
		return types.Inputs{}, missing(FieldHumidityMode)
	}
	if in.HumidityMode, err = types.ParseHumidityMode(raw); err != nil {
		return types.Inputs{}, invalid(FieldHumidityMode, err)
	}

	switch in.HumidityMode {
	case types.TargetRelativeHumidity:
		in.SupplyRelativeHumidity, err = f.number(FieldSupplyRelativeHumidity)
	case types.TargetHumidityRatio:
		in.SupplyHumidityRatio, err = f.number(FieldSupplyHumidityRatio)
	}
	if err != nil {
		return types.Inputs{}, err
	}

	return in, nil
}

// Validate checks an already-numeric input record. It is the validation
// stage of Recompute for callers that bypass ParseInputs.
func Validate(in types.Inputs) error {
	fields := []numericField{
		{FieldOutsideTemperature, in.OutsideTemperature},
		{FieldOutsideRelativeHumidity, in.OutsideRelativeHumidity},
		{FieldSupplyTemperature, in.SupplyTemperature},
		{FieldVolumetricFlow, in.VolumetricFlow},
		{FieldPreheatSetpoint, in.PreheatSetpoint},
		{FieldBarometricPressure, in.Pressure},
		{FieldHeatPrice, in.HeatPrice},
		{FieldElectricityPrice, in.ElectricityPrice},
		{FieldCoolingEfficiencyRatio, in.CoolingEfficiencyRatio},
	}
	if in.CoolerEnabled {
		switch in.HumidityMode {
		case types.TargetRelativeHumidity:
			fields = append(fields, numericField{FieldSupplyRelativeHumidity, in.SupplyRelativeHumidity})
		case types.TargetHumidityRatio:
			fields = append(fields, numericField{FieldSupplyHumidityRatio, in.SupplyHumidityRatio})
		default:
			return invalid(FieldHumidityMode, errors.New("unknown humidity mode"))
		}
	}

	for _, fl := range fields {
		if !finite(fl.value) {
			return invalid(fl.name, errNotFinite)
		}
	}

	// flow and prices are magnitudes
	for _, fl := range []numericField{
		{FieldVolumetricFlow, in.VolumetricFlow},
		{FieldHeatPrice, in.HeatPrice},
		{FieldElectricityPrice, in.ElectricityPrice},
	} {
		if fl.value < 0 {
			return invalid(fl.name, errNegative)
		}
	}
	return nil
}

type numericField struct {
	name  string
	value float64
}

// FormFromInputs renders an input record back into form fields, pressure in hPa
func FormFromInputs(in types.Inputs) Form {
	f := Form{
		FieldOutsideTemperature:      formatFloat(in.OutsideTemperature),
		FieldOutsideRelativeHumidity: formatFloat(in.OutsideRelativeHumidity),
		FieldSupplyTemperature:       formatFloat(in.SupplyTemperature),
		FieldVolumetricFlow:          formatFloat(in.VolumetricFlow),
		FieldCoolerEnabled:           strconv.FormatBool(in.CoolerEnabled),
		FieldPreheatSetpoint:         formatFloat(in.PreheatSetpoint),
		FieldBarometricPressure:      formatFloat(in.Pressure / 100),
		FieldHumidityMode:            in.HumidityMode.String(),
		FieldHeatPrice:               formatFloat(in.HeatPrice),
		FieldElectricityPrice:        formatFloat(in.ElectricityPrice),
		FieldCoolingEfficiencyRatio:  formatFloat(in.CoolingEfficiencyRatio),
	}
	if in.CoolerEnabled {
		switch in.HumidityMode {
		case types.TargetRelativeHumidity:
			f[FieldSupplyRelativeHumidity] = formatFloat(in.SupplyRelativeHumidity)
		case types.TargetHumidityRatio:
			f[FieldSupplyHumidityRatio] = formatFloat(in.SupplyHumidityRatio)
		}
	}
	return f
}

func (f Form) value(field string) (string, bool) {
	v, ok := f[field]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (f Form) number(field string) (float64, error) {
	raw, ok := f.value(field)
	if !ok {
		return 0, missing(field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalid(field, err)
	}
	if !finite(v) {
		return 0, invalid(field, errNotFinite)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
