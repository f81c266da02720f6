package report

import (
	"bytes"
	"testing"

	"github.com/Oktaederim/RLT-Berechnung/internal/ahu"
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summer() types.Inputs {
	return types.Inputs{
		OutsideTemperature:      30,
		OutsideRelativeHumidity: 70,
		SupplyTemperature:       18,
		SupplyRelativeHumidity:  50,
		VolumetricFlow:          5000,
		CoolerEnabled:           true,
		PreheatSetpoint:         5,
		Pressure:                psychro.StandardPressure,
		HumidityMode:            types.TargetRelativeHumidity,
		HeatPrice:               0.10,
		ElectricityPrice:        0.30,
		CoolingEfficiencyRatio:  3,
	}
}

func TestRenderSummer(t *testing.T) {
	r, err := ahu.Recompute(summer(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))
	out := buf.String()

	assert.Contains(t, out, "Process: Cool & dehumidify → Reheat")
	assert.Contains(t, out, "Mass flow: 1.667 kg/s")
	assert.Contains(t, out, "Cool & dehumidify: 90.97 kW, condensate 74.13 kg/h")
	assert.Contains(t, out, "Reheat: 17.96 kW")
	assert.Contains(t, out, "Outside air: 30.0 °C, 70.0 % RH")
	assert.Contains(t, out, "Supply air: 18.0 °C, 50.0 % RH")
	assert.Contains(t, out, "Total cost: 10.89 EUR/h")
	assert.NotContains(t, out, "Versus reference")
}

func TestRenderIdeal(t *testing.T) {
	in := summer()
	in.OutsideTemperature = 18
	in.OutsideRelativeHumidity = 50

	r, err := ahu.Recompute(in, nil)
	require.NoError(t, err)
	require.True(t, r.Ideal)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{Currency: "CHF"}))
	assert.Contains(t, buf.String(), "Process: "+IdealNotice)
	assert.Contains(t, buf.String(), "Total cost: 0.00 CHF/h")
}

func TestRenderReference(t *testing.T) {
	in := summer()
	in.VolumetricFlow = 4000
	base, err := ahu.Recompute(in, nil)
	require.NoError(t, err)
	ref := ahu.TakeSnapshot(base, in)

	in.VolumetricFlow = 5000
	r, err := ahu.Recompute(in, &ref)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))
	assert.Contains(t, buf.String(), "(+25.0%, expense)")
	assert.Contains(t, buf.String(), "supply temperature ±0.0 °C")
	assert.Contains(t, buf.String(), "flow +1000 m³/h")
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+1.50", signed(1.499999, 2))
	assert.Equal(t, "-0.30", signed(-0.3, 2))
	assert.Equal(t, "±0.0", signed(-0.01, 1))
}
