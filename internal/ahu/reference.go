package ahu

import (
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
)

// TakeSnapshot captures the values a later result is compared against.
func TakeSnapshot(r *types.Result, in types.Inputs) types.ReferenceSnapshot {
	return types.ReferenceSnapshot{
		Cost:                   r.Cost.TotalCost,
		SupplyTemperature:      r.Target.Temperature,
		SupplyRelativeHumidity: r.Target.RelativeHumidity,
		VolumetricFlow:         in.VolumetricFlow,
	}
}

// Compare returns the signed change of the current result against a snapshot.
func Compare(ref types.ReferenceSnapshot, r *types.Result, in types.Inputs) types.ReferenceDelta {
	d := types.ReferenceDelta{
		Cost:                   r.Cost.TotalCost - ref.Cost,
		SupplyTemperature:      r.Target.Temperature - ref.SupplyTemperature,
		SupplyRelativeHumidity: r.Target.RelativeHumidity - ref.SupplyRelativeHumidity,
		VolumetricFlow:         in.VolumetricFlow - ref.VolumetricFlow,
	}
	if ref.Cost != 0 {
		d.CostPercent = d.Cost / ref.Cost * 100
	}

	switch {
	case d.Cost < -psychro.Tolerance:
		d.Trend = types.TrendSaving
	case d.Cost > psychro.Tolerance:
		d.Trend = types.TrendExpense
	default:
		d.Trend = types.TrendNeutral
	}
	return d
}
