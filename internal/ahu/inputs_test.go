package ahu

import (
	"errors"
	"math"
	"testing"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs(baseForm())
	require.NoError(t, err)

	assert.Equal(t, baseInputs(), withRatio(in, 8))
	assert.Equal(t, psychro.StandardPressure, in.Pressure, "pressure must be converted from hPa to Pa")
}

// withRatio sets the field ParseInputs ignores in RH mode so records compare equal
func withRatio(in types.Inputs, x float64) types.Inputs {
	in.SupplyHumidityRatio = x
	return in
}

func TestParseInputsErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(Form)
		kind  error
		field string
	}{
		{
			name:  "missing outside temperature",
			edit:  func(f Form) { delete(f, FieldOutsideTemperature) },
			kind:  ErrMissingInput,
			field: FieldOutsideTemperature,
		},
		{
			name:  "blank volumetric flow",
			edit:  func(f Form) { f[FieldVolumetricFlow] = "  " },
			kind:  ErrMissingInput,
			field: FieldVolumetricFlow,
		},
		{
			name:  "non-numeric heat price",
			edit:  func(f Form) { f[FieldHeatPrice] = "cheap" },
			kind:  ErrInvalidNumeric,
			field: FieldHeatPrice,
		},
		{
			name:  "infinite pressure",
			edit:  func(f Form) { f[FieldBarometricPressure] = "+Inf" },
			kind:  ErrInvalidNumeric,
			field: FieldBarometricPressure,
		},
		{
			name:  "NaN supply RH",
			edit:  func(f Form) { f[FieldSupplyRelativeHumidity] = "NaN" },
			kind:  ErrInvalidNumeric,
			field: FieldSupplyRelativeHumidity,
		},
		{
			name:  "missing supply RH in RH mode",
			edit:  func(f Form) { delete(f, FieldSupplyRelativeHumidity) },
			kind:  ErrMissingInput,
			field: FieldSupplyRelativeHumidity,
		},
		{
			name:  "missing supply ratio in ratio mode",
			edit:  func(f Form) { f[FieldHumidityMode] = "x" },
			kind:  ErrMissingInput,
			field: FieldSupplyHumidityRatio,
		},
		{
			name:  "missing cooler flag",
			edit:  func(f Form) { delete(f, FieldCoolerEnabled) },
			kind:  ErrMissingInput,
			field: FieldCoolerEnabled,
		},
		{
			name:  "garbage cooler flag",
			edit:  func(f Form) { f[FieldCoolerEnabled] = "maybe" },
			kind:  ErrInvalidNumeric,
			field: FieldCoolerEnabled,
		},
		{
			name:  "unknown humidity mode",
			edit:  func(f Form) { f[FieldHumidityMode] = "dewpoint" },
			kind:  ErrInvalidNumeric,
			field: FieldHumidityMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseForm()
			tt.edit(f)

			_, err := ParseInputs(f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var ce *CalcError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, StageValidation, ce.Stage)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestParseInputsCoolerDisabledIgnoresHumidityTarget(t *testing.T) {
	f := baseForm()
	f[FieldCoolerEnabled] = "off"
	delete(f, FieldSupplyRelativeHumidity)
	delete(f, FieldHumidityMode)

	in, err := ParseInputs(f)
	require.NoError(t, err)
	assert.False(t, in.CoolerEnabled)
	assert.Equal(t, types.TargetRelativeHumidity, in.HumidityMode)
}

func TestParseInputsRatioMode(t *testing.T) {
	f := baseForm()
	f[FieldHumidityMode] = "humidity_ratio"
	f[FieldSupplyHumidityRatio] = "6.5"
	delete(f, FieldSupplyRelativeHumidity)

	in, err := ParseInputs(f)
	require.NoError(t, err)
	assert.Equal(t, types.TargetHumidityRatio, in.HumidityMode)
	assert.Equal(t, 6.5, in.SupplyHumidityRatio)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(baseInputs()))

	in := baseInputs()
	in.VolumetricFlow = math.NaN()
	err := Validate(in)
	assert.ErrorIs(t, err, ErrInvalidNumeric)

	in = baseInputs()
	in.HumidityMode = types.HumidityMode(7)
	assert.ErrorIs(t, Validate(in), ErrInvalidNumeric)

	for _, tc := range []struct {
		field string
		set   func(*types.Inputs)
	}{
		{FieldVolumetricFlow, func(in *types.Inputs) { in.VolumetricFlow = -5000 }},
		{FieldHeatPrice, func(in *types.Inputs) { in.HeatPrice = -0.1 }},
		{FieldElectricityPrice, func(in *types.Inputs) { in.ElectricityPrice = -0.3 }},
	} {
		t.Run("negative "+tc.field, func(t *testing.T) {
			in := baseInputs()
			tc.set(&in)

			err := Validate(in)
			assert.ErrorIs(t, err, ErrInvalidNumeric)
			var ce *CalcError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)

			_, err = Recompute(in, nil)
			assert.ErrorIs(t, err, ErrInvalidNumeric)
		})
	}

	in = baseInputs()
	in.VolumetricFlow = 0
	in.HeatPrice = 0
	assert.NoError(t, Validate(in))

	// the unused target field may hold anything
	in = baseInputs()
	in.SupplyHumidityRatio = math.Inf(1)
	assert.NoError(t, Validate(in))
}

func TestFormFromInputsRoundTrip(t *testing.T) {
	want := baseInputs()
	want.HumidityMode = types.TargetHumidityRatio
	want.SupplyHumidityRatio = 6.5

	got, err := ParseInputs(FormFromInputs(want))
	require.NoError(t, err)
	assert.Equal(t, want.SupplyHumidityRatio, got.SupplyHumidityRatio)
	assert.Equal(t, want.HumidityMode, got.HumidityMode)
	assert.InDelta(t, want.Pressure, got.Pressure, 1e-9)
	assert.Equal(t, want.VolumetricFlow, got.VolumetricFlow)
}

func TestFormMerge(t *testing.T) {
	base := Form{FieldVolumetricFlow: "5000", FieldHeatPrice: "0.1"}
	merged := base.Merge(Form{FieldVolumetricFlow: "6000", FieldHeatPrice: ""})

	assert.Equal(t, "6000", merged[FieldVolumetricFlow])
	assert.Equal(t, "0.1", merged[FieldHeatPrice])
	assert.Equal(t, "5000", base[FieldVolumetricFlow], "merge must not modify the receiver")
}
