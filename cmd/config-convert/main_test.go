package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Oktaederim/RLT-Berechnung/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
defaults:
  volumetric_flow: "8000"
presets:
  - name: winter
    values:
      outside_temperature: "-12"
`

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "out", "config.db")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0644))

	require.NoError(t, convert(yamlPath, dbPath, false, false))

	p, err := config.NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8000.0, cfg.Defaults.VolumetricFlow)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, "-12", cfg.Presets[0].Values["outside_temperature"])

	// refuses to overwrite without -force
	assert.Error(t, convert(yamlPath, dbPath, false, false))
	assert.NoError(t, convert(yamlPath, dbPath, true, false))
}

func TestConvertDryRun(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "config.db")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0644))

	require.NoError(t, convert(yamlPath, dbPath, false, true))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, convert(filepath.Join(dir, "missing.yaml"), dbPath, false, false))
}
