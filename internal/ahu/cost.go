package ahu

import (
	"fmt"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
)

// CalculateCost sums heating and cooling power over the active steps and prices
// them. Heat is billed directly; cooling is billed as electricity through the
// cooling efficiency ratio, which must be positive.
func CalculateCost(steps []types.ProcessStep, in types.Inputs) (types.CostBreakdown, error) {
	if !(in.CoolingEfficiencyRatio > 0) {
		return types.CostBreakdown{}, &CalcError{
			Kind:  ErrConfiguration,
			Stage: StageCost,
			Field: FieldCoolingEfficiencyRatio,
			Err:   fmt.Errorf("cooling efficiency ratio must be positive, got %v", in.CoolingEfficiencyRatio),
		}
	}

	var c types.CostBreakdown
	for _, s := range steps {
		switch s.Kind {
		case types.StepPreheat, types.StepReheat:
			c.HeatingPower += s.Power
		case types.StepCoolDehumidify:
			c.CoolingPower += s.Power
		}
	}

	c.HeatingCost = c.HeatingPower * in.HeatPrice
	c.CoolingCost = (c.CoolingPower / in.CoolingEfficiencyRatio) * in.ElectricityPrice
	c.TotalCost = c.HeatingCost + c.CoolingCost
	return c, nil
}
