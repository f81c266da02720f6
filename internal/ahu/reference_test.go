package ahu

import (
	"testing"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeSnapshot(t *testing.T) {
	in := baseInputs()
	r, err := Recompute(in, nil)
	require.NoError(t, err)

	snap := TakeSnapshot(r, in)
	assert.Equal(t, r.Cost.TotalCost, snap.Cost)
	assert.Equal(t, 20.0, snap.SupplyTemperature)
	assert.Equal(t, 50.0, snap.SupplyRelativeHumidity)
	assert.Equal(t, 5000.0, snap.VolumetricFlow)
}

func TestCompare(t *testing.T) {
	ref := types.ReferenceSnapshot{Cost: 10, SupplyTemperature: 20, SupplyRelativeHumidity: 50, VolumetricFlow: 4000}

	tests := []struct {
		name    string
		cost    float64
		trend   types.CostTrend
		delta   float64
		percent float64
	}{
		{name: "expense", cost: 12.5, trend: types.TrendExpense, delta: 2.5, percent: 25},
		{name: "saving", cost: 7.5, trend: types.TrendSaving, delta: -2.5, percent: -25},
		{name: "within tolerance", cost: 10.005, trend: types.TrendNeutral, delta: 0.005, percent: 0.05},
		{name: "unchanged", cost: 10, trend: types.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &types.Result{
				Target: psychro.AirState{Temperature: 22, RelativeHumidity: 45},
				Cost:   types.CostBreakdown{TotalCost: tt.cost},
			}
			in := baseInputs()

			d := Compare(ref, r, in)
			assert.Equal(t, tt.trend, d.Trend)
			assert.InDelta(t, tt.delta, d.Cost, 1e-9)
			assert.InDelta(t, tt.percent, d.CostPercent, 1e-9)
			assert.InDelta(t, 2, d.SupplyTemperature, 1e-12)
			assert.InDelta(t, -5, d.SupplyRelativeHumidity, 1e-12)
			assert.InDelta(t, 1000, d.VolumetricFlow, 1e-12)
		})
	}
}

func TestCompareZeroReferenceCost(t *testing.T) {
	d := Compare(types.ReferenceSnapshot{}, &types.Result{Cost: types.CostBreakdown{TotalCost: 3}}, baseInputs())

	assert.Equal(t, 3.0, d.Cost)
	assert.Zero(t, d.CostPercent)
	assert.Equal(t, types.TrendExpense, d.Trend)
}
