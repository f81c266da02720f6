package config

import (
	"fmt"
	"strconv"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetServer() (*ServerData, error)
	GetLogging() (*LoggingData, error)
	GetDefaults() (*InputsData, error)
	GetPresets() ([]PresetData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server   ServerData   `json:"server"`
	Logging  LoggingData  `json:"logging"`
	Defaults InputsData   `json:"defaults"`
	Presets  []PresetData `json:"presets,omitempty"`
}

// ServerData holds the HTTP server configuration
type ServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
	EnableCORS bool   `json:"enable_cors,omitempty"`
	// SessionTTL is a Go duration string; idle reference sessions older than this are dropped
	SessionTTL string `json:"session_ttl,omitempty"`
}

// LoggingData holds the logger configuration
type LoggingData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// InputsData holds the calculator's start-up input values.
// BarometricPressure is in hPa.
type InputsData struct {
	OutsideTemperature      float64 `json:"outside_temperature"`
	OutsideRelativeHumidity float64 `json:"outside_relative_humidity"`
	SupplyTemperature       float64 `json:"supply_temperature"`
	SupplyRelativeHumidity  float64 `json:"supply_relative_humidity"`
	SupplyHumidityRatio     float64 `json:"supply_humidity_ratio"`
	VolumetricFlow          float64 `json:"volumetric_flow"`
	CoolerEnabled           bool    `json:"cooler_enabled"`
	PreheatSetpoint         float64 `json:"preheat_setpoint"`
	BarometricPressure      float64 `json:"barometric_pressure"`
	HumidityMode            string  `json:"humidity_mode"`
	HeatPrice               float64 `json:"heat_price"`
	ElectricityPrice        float64 `json:"electricity_price"`
	CoolingEfficiencyRatio  float64 `json:"cooling_efficiency_ratio"`
}

// PresetData is a named set of input values applied on top of the defaults
type PresetData struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Values      map[string]string `json:"values"`
}

// DefaultInputs returns the values used when no defaults are configured
func DefaultInputs() InputsData {
	return InputsData{
		OutsideTemperature:      -10,
		OutsideRelativeHumidity: 90,
		SupplyTemperature:       20,
		SupplyRelativeHumidity:  50,
		SupplyHumidityRatio:     7.5,
		VolumetricFlow:          5000,
		CoolerEnabled:           true,
		PreheatSetpoint:         5,
		BarometricPressure:      1013.25,
		HumidityMode:            "rh",
		HeatPrice:               0.12,
		ElectricityPrice:        0.30,
		CoolingEfficiencyRatio:  3.5,
	}
}

// Values renders the inputs as form fields
func (d InputsData) Values() map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return map[string]string{
		"outside_temperature":       f(d.OutsideTemperature),
		"outside_relative_humidity": f(d.OutsideRelativeHumidity),
		"supply_temperature":        f(d.SupplyTemperature),
		"supply_relative_humidity":  f(d.SupplyRelativeHumidity),
		"supply_humidity_ratio":     f(d.SupplyHumidityRatio),
		"volumetric_flow":           f(d.VolumetricFlow),
		"cooler_enabled":            strconv.FormatBool(d.CoolerEnabled),
		"preheat_setpoint":          f(d.PreheatSetpoint),
		"barometric_pressure":       f(d.BarometricPressure),
		"humidity_mode":             d.HumidityMode,
		"heat_price":                f(d.HeatPrice),
		"electricity_price":         f(d.ElectricityPrice),
		"cooling_efficiency_ratio":  f(d.CoolingEfficiencyRatio),
	}
}

// InputsFromValues is the inverse of InputsData.Values. Fields that are absent
// keep the value from DefaultInputs.
func InputsFromValues(values map[string]string) (InputsData, error) {
	d := DefaultInputs()

	floats := map[string]*float64{
		"outside_temperature":       &d.OutsideTemperature,
		"outside_relative_humidity": &d.OutsideRelativeHumidity,
		"supply_temperature":        &d.SupplyTemperature,
		"supply_relative_humidity":  &d.SupplyRelativeHumidity,
		"supply_humidity_ratio":     &d.SupplyHumidityRatio,
		"volumetric_flow":           &d.VolumetricFlow,
		"preheat_setpoint":          &d.PreheatSetpoint,
		"barometric_pressure":       &d.BarometricPressure,
		"heat_price":                &d.HeatPrice,
		"electricity_price":         &d.ElectricityPrice,
		"cooling_efficiency_ratio":  &d.CoolingEfficiencyRatio,
	}

	for field, raw := range values {
		switch field {
		case "cooler_enabled":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return InputsData{}, fmt.Errorf("invalid value for %s: %w", field, err)
			}
			d.CoolerEnabled = b
		case "humidity_mode":
			d.HumidityMode = raw
		default:
			dst, ok := floats[field]
			if !ok {
				return InputsData{}, fmt.Errorf("unknown input field %q", field)
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return InputsData{}, fmt.Errorf("invalid value for %s: %w", field, err)
			}
			*dst = v
		}
	}
	return d, nil
}

// Preset returns the preset with the given name
func Preset(presets []PresetData, name string) (*PresetData, bool) {
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i], true
		}
	}
	return nil, false
}
