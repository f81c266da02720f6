package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server   ServerYAML        `yaml:"server,omitempty"`
		Logging  LoggingYAML       `yaml:"logging,omitempty"`
		Defaults map[string]string `yaml:"defaults,omitempty"`
		Presets  []PresetYAML      `yaml:"presets,omitempty"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	defaults, err := InputsFromValues(yamlConfig.Defaults)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	// Convert to our internal format
	config := &ConfigData{
		Server: ServerData{
			Cert:       yamlConfig.Server.Cert,
			Key:        yamlConfig.Server.Key,
			Port:       yamlConfig.Server.Port,
			ListenAddr: yamlConfig.Server.ListenAddr,
			EnableCORS: yamlConfig.Server.EnableCORS,
			SessionTTL: yamlConfig.Server.SessionTTL,
		},
		Logging: LoggingData{
			Debug:      yamlConfig.Logging.Debug,
			File:       yamlConfig.Logging.File,
			MaxSizeMB:  yamlConfig.Logging.MaxSizeMB,
			MaxBackups: yamlConfig.Logging.MaxBackups,
			MaxAgeDays: yamlConfig.Logging.MaxAgeDays,
		},
		Defaults: defaults,
		Presets:  make([]PresetData, len(yamlConfig.Presets)),
	}

	for i, preset := range yamlConfig.Presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("preset #%d has no name", i+1)
		}
		// reject unknown fields early rather than at request time
		if _, err := InputsFromValues(preset.Values); err != nil {
			return nil, fmt.Errorf("preset %s: %w", preset.Name, err)
		}
		config.Presets[i] = PresetData{
			Name:        preset.Name,
			Description: preset.Description,
			Values:      preset.Values,
		}
	}

	return config, nil
}

// GetServer returns the server configuration
func (y *YAMLProvider) GetServer() (*ServerData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Server, nil
}

// GetLogging returns the logging configuration
func (y *YAMLProvider) GetLogging() (*LoggingData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Logging, nil
}

// GetDefaults returns the default input values
func (y *YAMLProvider) GetDefaults() (*InputsData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Defaults, nil
}

// GetPresets returns the configured presets
func (y *YAMLProvider) GetPresets() ([]PresetData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Presets, nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config == nil {
		_, err := y.LoadConfig()
		return err
	}
	return nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ServerYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
	EnableCORS bool   `yaml:"enable-cors,omitempty"`
	SessionTTL string `yaml:"session-ttl,omitempty"`
}

type LoggingYAML struct {
	Debug      bool   `yaml:"debug,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}

type PresetYAML struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Values      map[string]string `yaml:"values"`
}
