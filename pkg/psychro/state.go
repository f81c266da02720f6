package psychro

import "math"

// AirState is a single point of an air treatment process.
// Enthalpy is always derived from Temperature and HumidityRatio.
type AirState struct {
	Temperature      float64 `json:"temperature"`
	RelativeHumidity float64 `json:"relative_humidity"`
	HumidityRatio    float64 `json:"humidity_ratio"`
	Enthalpy         float64 `json:"enthalpy"`
}

// NewAirState builds an air state from dry-bulb temperature (°C), relative
// humidity (%) and total pressure (Pa).
func NewAirState(temp, rh, pressure float64) AirState {
	x := HumidityRatio(temp, rh, pressure)
	return AirState{
		Temperature:      temp,
		RelativeHumidity: clampPercent(rh),
		HumidityRatio:    x,
		Enthalpy:         SpecificEnthalpy(temp, x),
	}
}

// AirStateFromRatio builds an air state from dry-bulb temperature (°C),
// humidity ratio (g/kg) and total pressure (Pa).
func AirStateFromRatio(temp, ratio, pressure float64) AirState {
	return AirState{
		Temperature:      temp,
		RelativeHumidity: RelativeHumidity(temp, ratio, pressure),
		HumidityRatio:    ratio,
		Enthalpy:         SpecificEnthalpy(temp, ratio),
	}
}

// Valid reports whether every property of the state is finite.
func (a AirState) Valid() bool {
	for _, v := range []float64{a.Temperature, a.RelativeHumidity, a.HumidityRatio, a.Enthalpy} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// DewPoint returns the dew point of the state at the given pressure.
func (a AirState) DewPoint(pressure float64) float64 {
	return DewPoint(a.HumidityRatio, pressure)
}

// Equal reports whether two states agree within Tolerance on temperature and
// humidity ratio.
func (a AirState) Equal(b AirState) bool {
	return math.Abs(a.Temperature-b.Temperature) <= Tolerance &&
		math.Abs(a.HumidityRatio-b.HumidityRatio) <= Tolerance
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
