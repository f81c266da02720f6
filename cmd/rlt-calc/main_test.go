package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
defaults:
  heat_price: "0.10"
  electricity_price: "0.30"
  cooling_efficiency_ratio: "3"
presets:
  - name: summer
    values:
      outside_temperature: "30"
      outside_relative_humidity: "70"
      supply_temperature: "18"
`

func TestRunTextReport(t *testing.T) {
	opts := parseFlags([]string{
		"-outside-temperature", "30",
		"-outside-relative-humidity", "70",
		"-supply-temperature", "18",
		"-supply-relative-humidity", "50",
		"-heat-price", "0.10",
		"-cooling-efficiency-ratio", "3",
	})

	var out bytes.Buffer
	require.NoError(t, run(opts, &out))
	assert.Contains(t, out.String(), "Process: Cool & dehumidify → Reheat")
	assert.Contains(t, out.String(), "Total cost: 10.89 EUR/h")
}

func TestRunPresetJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetYAML), 0644))

	opts := parseFlags([]string{"-config", path, "-preset", "summer", "-format", "json"})

	var out bytes.Buffer
	require.NoError(t, run(opts, &out))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	cost := result["cost"].(map[string]interface{})
	assert.InDelta(t, 10.892, cost["total_cost"].(float64), 0.01)
}

func TestRunSweep(t *testing.T) {
	opts := parseFlags([]string{"-sweep", "flow", "-from", "1000", "-to", "3000", "-steps", "3", "-outside-temperature", "5", "-outside-relative-humidity", "80"})

	var out bytes.Buffer
	require.NoError(t, run(opts, &out))
	assert.Contains(t, out.String(), "volumetric_flow")
	assert.Contains(t, out.String(), "*Reheat")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, run(parseFlags([]string{"-preset", "autumn"}), &out))
	assert.Error(t, run(parseFlags([]string{"-format", "xml"}), &out))
	assert.Error(t, run(parseFlags([]string{"-cooling-efficiency-ratio", "0"}), &out))
	assert.Error(t, run(parseFlags([]string{"-sweep", "wind"}), &out))
}
