package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete perch configuration
type Config struct {
	Editor EditorConfig `json:"editor" yaml:"editor"`
	Launch LaunchConfig `json:"launch" yaml:"launch"`
	Global GlobalConfig `json:"global" yaml:"global"`
}

// EditorConfig represents editor selection defaults. Preferred fills the
// explicit-parameter slot of resolution; the PERCH_EDITOR variable and the
// project .env.local always outrank it.
type EditorConfig struct {
	Preferred string   `json:"preferred" yaml:"preferred"`
	Format    []string `json:"format,omitempty" yaml:"format,omitempty"`
}

// LaunchConfig represents launch defaults
type LaunchConfig struct {
	Workspace    string `json:"workspace" yaml:"workspace"`
	WindowMethod string `json:"windowMethod" yaml:"windowMethod"`
	Wait         bool   `json:"wait" yaml:"wait"`
}

// GlobalConfig represents global settings
type GlobalConfig struct {
	Verbose      bool   `json:"verbose" yaml:"verbose"`
	OutputFormat string `json:"outputFormat" yaml:"outputFormat"`
	ColorOutput  bool   `json:"colorOutput" yaml:"colorOutput"`
}

// Manager handles configuration loading, saving, and validation
type Manager struct {
	defaultConfig *Config
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		defaultConfig: getDefaultConfig(),
	}
}

// LoadConfig loads configuration from all sources in priority order:
// defaults, then the global file, then the project file, then environment
// overrides. The merged result is validated before it is returned.
func (m *Manager) LoadConfig(projectPath string) (*Config, error) {
	config := m.defaultConfig.copy()

	if err := m.loadGlobalConfig(config); err != nil {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}

	if projectPath != "" {
		if err := m.loadProjectConfig(config, projectPath); err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	m.applyEnvironmentOverrides(config)

	if errors := m.ValidateConfig(config); len(errors) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return config, nil
}

// SaveConfig saves configuration to the global or the project location
func (m *Manager) SaveConfig(config *Config, projectPath string, global bool) error {
	var configPath string

	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(homeDir, ".config", "perch")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configPath = filepath.Join(configDir, "config.yaml")
	} else {
		if projectPath == "" {
			return fmt.Errorf("project path is required for project config")
		}
		configPath = filepath.Join(projectPath, ".perch.yaml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateConfig validates the configuration and returns any errors
func (m *Manager) ValidateConfig(config *Config) []string {
	var errors []string

	if config.Launch.WindowMethod != "" {
		validMethods := []string{"reuse", "new"}
		valid := false
		for _, method := range validMethods {
			if config.Launch.WindowMethod == method {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("unsupported window method: %s", config.Launch.WindowMethod))
		}
	}

	if config.Launch.Workspace != "" {
		if _, err := os.Stat(config.Launch.Workspace); err != nil {
			errors = append(errors, fmt.Sprintf("workspace does not exist: %s", config.Launch.Workspace))
		}
	}

	if config.Global.OutputFormat != "" {
		validFormats := []string{"text", "table", "json", "yaml", "simple"}
		valid := false
		for _, format := range validFormats {
			if config.Global.OutputFormat == format {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("unsupported output format: %s", config.Global.OutputFormat))
		}
	}

	return errors
}

// GetConfigPaths returns all possible configuration file paths in priority order
func (m *Manager) GetConfigPaths(projectPath string) []string {
	var paths []string

	if projectPath != "" {
		paths = append(paths,
			filepath.Join(projectPath, ".perch.yaml"),
			filepath.Join(projectPath, ".perch.yml"),
			filepath.Join(projectPath, ".perch.json"),
		)
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".config", "perch", "config.yaml"),
			filepath.Join(homeDir, ".config", "perch", "config.json"),
		)
	}

	return paths
}

// loadGlobalConfig loads the global configuration file
func (m *Manager) loadGlobalConfig(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil // Skip global config if home directory is not available
	}

	configPaths := []string{
		filepath.Join(homeDir, ".config", "perch", "config.yaml"),
		filepath.Join(homeDir, ".config", "perch", "config.json"),
	}

	return m.loadFirst(config, configPaths)
}

// loadProjectConfig loads the project configuration file
func (m *Manager) loadProjectConfig(config *Config, projectPath string) error {
	configPaths := []string{
		filepath.Join(projectPath, ".perch.yaml"),
		filepath.Join(projectPath, ".perch.yml"),
		filepath.Join(projectPath, ".perch.json"),
	}

	return m.loadFirst(config, configPaths)
}

// loadFirst merges the first readable, parsable file of paths into config
func (m *Manager) loadFirst(config *Config, paths []string) error {
	for _, configPath := range paths {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			continue
		}

		var rawConfig map[string]interface{}
		if strings.HasSuffix(configPath, ".json") {
			err = json.Unmarshal(data, &rawConfig)
		} else {
			err = yaml.Unmarshal(data, &rawConfig)
		}

		if err != nil {
			continue
		}

		if err := m.mergeConfig(config, rawConfig); err != nil {
			return err
		}

		break // Use first found config
	}

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides.
// PERCH_EDITOR is deliberately absent here: the resolver consults it
// first-hand as resolution step one.
func (m *Manager) applyEnvironmentOverrides(config *Config) {
	if verbose := os.Getenv("PERCH_VERBOSE"); verbose != "" {
		if v, err := strconv.ParseBool(verbose); err == nil {
			config.Global.Verbose = v
		}
	}

	if format := os.Getenv("PERCH_OUTPUT_FORMAT"); format != "" {
		config.Global.OutputFormat = format
	}

	if color := os.Getenv("PERCH_COLOR"); color != "" {
		if v, err := strconv.ParseBool(color); err == nil {
			config.Global.ColorOutput = v
		}
	}
}

// mergeConfig merges raw configuration into the config object
func (m *Manager) mergeConfig(config *Config, rawConfig map[string]interface{}) error {
	if editor, ok := rawConfig["editor"].(map[string]interface{}); ok {
		m.parseEditorConfig(&config.Editor, editor)
	}

	if launch, ok := rawConfig["launch"].(map[string]interface{}); ok {
		m.parseLaunchConfig(&config.Launch, launch)
	}

	if global, ok := rawConfig["global"].(map[string]interface{}); ok {
		m.parseGlobalConfig(&config.Global, global)
	}

	return nil
}

// parseEditorConfig parses editor configuration
func (m *Manager) parseEditorConfig(config *EditorConfig, raw map[string]interface{}) {
	if preferred, ok := raw["preferred"].(string); ok {
		config.Preferred = preferred
	}

	if format, ok := raw["format"].([]interface{}); ok {
		templates := make([]string, 0, len(format))
		for _, fragment := range format {
			if s, ok := fragment.(string); ok {
				templates = append(templates, s)
			}
		}
		if len(templates) > 0 {
			config.Format = templates
		}
	}

	if format, ok := raw["format"].(string); ok && format != "" {
		config.Format = []string{format}
	}
}

// parseLaunchConfig parses launch configuration
func (m *Manager) parseLaunchConfig(config *LaunchConfig, raw map[string]interface{}) {
	if workspace, ok := raw["workspace"].(string); ok {
		config.Workspace = workspace
	}

	if method, ok := raw["windowMethod"].(string); ok {
		config.WindowMethod = method
	}

	if wait, ok := raw["wait"].(bool); ok {
		config.Wait = wait
	}
}

// parseGlobalConfig parses global configuration
func (m *Manager) parseGlobalConfig(config *GlobalConfig, raw map[string]interface{}) {
	if verbose, ok := raw["verbose"].(bool); ok {
		config.Verbose = verbose
	}

	if outputFormat, ok := raw["outputFormat"].(string); ok {
		config.OutputFormat = outputFormat
	}

	if colorOutput, ok := raw["colorOutput"].(bool); ok {
		config.ColorOutput = colorOutput
	}
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			Preferred: "",
		},
		Launch: LaunchConfig{
			Workspace:    "",
			WindowMethod: "",
			Wait:         false,
		},
		Global: GlobalConfig{
			Verbose:      false,
			OutputFormat: "text",
			ColorOutput:  true,
		},
	}
}

// copy creates a deep copy of the configuration
func (c *Config) copy() *Config {
	newConfig := &Config{
		Editor: c.Editor,
		Launch: c.Launch,
		Global: c.Global,
	}

	if c.Editor.Format != nil {
		newConfig.Editor.Format = make([]string, len(c.Editor.Format))
		copy(newConfig.Editor.Format, c.Editor.Format)
	}

	return newConfig
}
