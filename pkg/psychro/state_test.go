package psychro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAirState(t *testing.T) {
	s := NewAirState(20, 50, StandardPressure)

	assert.Equal(t, 20.0, s.Temperature)
	assert.Equal(t, 50.0, s.RelativeHumidity)
	assert.InDelta(t, HumidityRatio(20, 50, StandardPressure), s.HumidityRatio, 1e-12)
	assert.InDelta(t, SpecificEnthalpy(20, s.HumidityRatio), s.Enthalpy, 1e-12)
	assert.True(t, s.Valid())
}

func TestNewAirStateClampsRelativeHumidity(t *testing.T) {
	assert.Equal(t, 100.0, NewAirState(20, 120, StandardPressure).RelativeHumidity)
	assert.Equal(t, 0.0, NewAirState(20, -3, StandardPressure).RelativeHumidity)
}

func TestAirStateFromRatioAgreesWithNewAirState(t *testing.T) {
	a := NewAirState(12, 65, 98000)
	b := AirStateFromRatio(12, a.HumidityRatio, 98000)

	assert.InDelta(t, a.RelativeHumidity, b.RelativeHumidity, 1e-3)
	assert.InDelta(t, a.Enthalpy, b.Enthalpy, 1e-12)
	assert.True(t, a.Equal(b))
}

func TestAirStateValid(t *testing.T) {
	assert.False(t, NewAirState(20, 50, 0).Valid())
	assert.False(t, AirState{Temperature: math.NaN()}.Valid())
	assert.True(t, AirState{}.Valid())
}

func TestAirStateEqual(t *testing.T) {
	a := AirState{Temperature: 20, HumidityRatio: 7.2}

	assert.True(t, a.Equal(AirState{Temperature: 20.005, HumidityRatio: 7.205}))
	assert.False(t, a.Equal(AirState{Temperature: 20.02, HumidityRatio: 7.2}))
	assert.False(t, a.Equal(AirState{Temperature: 20, HumidityRatio: 7.22}))
}
