package ahu

import (
	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/Oktaederim/RLT-Berechnung/pkg/psychro"
)

// baseInputs is a winter day with the cooler enabled and an RH target.
func baseInputs() types.Inputs {
	return types.Inputs{
		OutsideTemperature:      5,
		OutsideRelativeHumidity: 80,
		SupplyTemperature:       20,
		SupplyRelativeHumidity:  50,
		SupplyHumidityRatio:     8,
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

func baseForm() Form {
	return Form{
		FieldOutsideTemperature:      "5",
		FieldOutsideRelativeHumidity: "80",
		FieldSupplyTemperature:       "20",
		FieldSupplyRelativeHumidity:  "50",
		FieldVolumetricFlow:          "5000",
		FieldCoolerEnabled:           "true",
		FieldPreheatSetpoint:         "5",
		FieldBarometricPressure:      "1013.25",
		FieldHumidityMode:            "rh",
		FieldHeatPrice:               "0.10",
		FieldElectricityPrice:        "0.30",
		FieldCoolingEfficiencyRatio:  "3",
	}
}

func kinds(steps []types.ProcessStep) []types.StepKind {
	out := make([]types.StepKind, len(steps))
	for i, s := range steps {
		out[i] = s.Kind
	}
	return out
}
