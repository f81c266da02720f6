// Package psychro provides moist-air property calculations (saturation vapor
// pressure, humidity ratio, relative humidity, dew point and specific enthalpy)
// in metric units: °C, %, g/kg dry air, Pa and kJ/kg dry air.
//
// Physically impossible conditions are reported as sentinel values rather than
// errors: +Inf for a humidity ratio or enthalpy that cannot exist and a fixed
// floor for dew points below the range of the Magnus approximation.
package psychro

import "math"

const (
	// StandardPressure is the ICAO standard atmosphere at sea level in Pa
	StandardPressure = 101325.0

	// Tolerance governs all "close enough" comparisons between air states
	Tolerance = 0.01

	// DewPointFloor is returned by DewPoint when the vapor pressure is below the
	// saturation pressure at 0 °C. It is a fixed sentinel, not a derived value.
	DewPointFloor = -60.0

	// AirDensity is the fixed air density used to convert volume flow to mass flow (kg/m³)
	AirDensity = 1.2

	// ratio of the molar masses of water vapor and dry air, scaled to g/kg
	molarRatio = 622.0

	// Magnus coefficients over water and over ice
	magnusBase     = 611.2
	magnusWaterA   = 17.62
	magnusWaterB   = 243.12
	magnusIceA     = 22.46
	magnusIceB     = 272.62
	cpDryAir       = 1.006
	cpWaterVapor   = 1.86
	latentHeat0C   = 2501.0
	gramsPerKilo   = 1000.0
	secondsPerHour = 3600.0
)

// SaturationVaporPressure returns the saturation vapor pressure in Pa at the
// given dry-bulb temperature (°C) using the Magnus approximation. Coefficients
// over ice are used below 0 °C.
func SaturationVaporPressure(temp float64) float64 {
	if temp >= 0 {
		return magnusBase * math.Exp((magnusWaterA*temp)/(magnusWaterB+temp))
	}
	return magnusBase * math.Exp((magnusIceA*temp)/(magnusIceB+temp))
}

// HumidityRatio returns the humidity ratio in g/kg dry air for a dry-bulb
// temperature (°C), relative humidity (%) and total pressure (Pa).
// It returns +Inf when pressure is not positive or when the vapor pressure
// reaches the total pressure.
func HumidityRatio(temp, rh, pressure float64) float64 {
	if pressure <= 0 {
		return math.Inf(1)
	}

	pv := (rh / 100) * SaturationVaporPressure(temp)
	if pv >= pressure {
		return math.Inf(1)
	}

	return molarRatio * pv / (pressure - pv)
}

// RelativeHumidity returns the relative humidity in % for a dry-bulb
// temperature (°C), humidity ratio (g/kg) and total pressure (Pa), clamped
// to 100. An infinite humidity ratio is treated as saturated air.
func RelativeHumidity(temp, ratio, pressure float64) float64 {
	ps := SaturationVaporPressure(temp)
	if pressure <= 0 || ps <= 0 {
		return 0
	}
	if math.IsInf(ratio, 1) {
		return 100
	}

	return math.Min(100, 100*vaporPressure(ratio, pressure)/ps)
}

// DewPoint returns the dew point temperature in °C for a humidity ratio (g/kg)
// at the given total pressure (Pa). Only the water branch of the Magnus formula
// is inverted; vapor pressures below 611.2 Pa yield DewPointFloor.
func DewPoint(ratio, pressure float64) float64 {
	pv := vaporPressure(ratio, pressure)
	if pv < magnusBase {
		return DewPointFloor
	}

	l := math.Log(pv / magnusBase)
	return (magnusWaterB * l) / (magnusWaterA - l)
}

// SpecificEnthalpy returns the specific enthalpy of moist air in kJ/kg dry air.
// A non-finite humidity ratio propagates as +Inf.
func SpecificEnthalpy(temp, ratio float64) float64 {
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return math.Inf(1)
	}
	return cpDryAir*temp + (ratio/gramsPerKilo)*(latentHeat0C+cpWaterVapor*temp)
}

// MassFlow converts a volumetric air flow in m³/h to a mass flow in kg/s.
func MassFlow(volumetricFlow float64) float64 {
	return (volumetricFlow / secondsPerHour) * AirDensity
}

// CondensateFlow returns the water removed in kg/h when a mass flow (kg/s) is
// dried from one humidity ratio to another (g/kg).
func CondensateFlow(massFlow, fromRatio, toRatio float64) float64 {
	return massFlow * (fromRatio - toRatio) / gramsPerKilo * secondsPerHour
}

func vaporPressure(ratio, pressure float64) float64 {
	return (pressure * ratio) / (molarRatio + ratio)
}
