package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	// Point HOME at the temp directory so global config lookups stay isolated
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)
	os.Setenv("HOME", tempDir)

	t.Run("load default config", func(t *testing.T) {
		manager := NewManager()

		config, err := manager.LoadConfig("")
		require.NoError(t, err)
		assert.NotNil(t, config)

		// Should have default values
		assert.Empty(t, config.Editor.Preferred)
		assert.Empty(t, config.Launch.WindowMethod)
		assert.Equal(t, "text", config.Global.OutputFormat)
		assert.True(t, config.Global.ColorOutput)
		assert.False(t, config.Global.Verbose)
	})

	t.Run("load project config", func(t *testing.T) {
		projectDir := t.TempDir()
		projectConfigPath := filepath.Join(projectDir, ".perch.yaml")
		projectConfig := `
editor:
  preferred: "cursor"
  format:
    - "--goto"
    - "{file}:{line}"
launch:
  windowMethod: "reuse"
`
		err := os.WriteFile(projectConfigPath, []byte(projectConfig), 0644)
		require.NoError(t, err)

		manager := NewManager()
		config, err := manager.LoadConfig(projectDir)
		require.NoError(t, err)

		assert.Equal(t, "cursor", config.Editor.Preferred)
		assert.Equal(t, []string{"--goto", "{file}:{line}"}, config.Editor.Format)
		assert.Equal(t, "reuse", config.Launch.WindowMethod)
	})

	t.Run("load global config", func(t *testing.T) {
		globalConfigDir := filepath.Join(tempDir, ".config", "perch")
		err := os.MkdirAll(globalConfigDir, 0755)
		require.NoError(t, err)

		globalConfigPath := filepath.Join(globalConfigDir, "config.yaml")
		globalConfig := `
editor:
  preferred: "code"
global:
  outputFormat: "json"
  colorOutput: false
`
		err = os.WriteFile(globalConfigPath, []byte(globalConfig), 0644)
		require.NoError(t, err)
		defer os.Remove(globalConfigPath)

		manager := NewManager()
		config, err := manager.LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, "code", config.Editor.Preferred)
		assert.Equal(t, "json", config.Global.OutputFormat)
		assert.False(t, config.Global.ColorOutput)
	})

	t.Run("config priority order", func(t *testing.T) {
		globalConfigDir := filepath.Join(tempDir, ".config", "perch")
		err := os.MkdirAll(globalConfigDir, 0755)
		require.NoError(t, err)

		globalConfigPath := filepath.Join(globalConfigDir, "config.yaml")
		globalConfig := `
editor:
  preferred: "code"
global:
  outputFormat: "json"
`
		err = os.WriteFile(globalConfigPath, []byte(globalConfig), 0644)
		require.NoError(t, err)
		defer os.Remove(globalConfigPath)

		projectDir := t.TempDir()
		projectConfigPath := filepath.Join(projectDir, ".perch.yaml")
		projectConfig := `
editor:
  preferred: "vim"
`
		err = os.WriteFile(projectConfigPath, []byte(projectConfig), 0644)
		require.NoError(t, err)

		manager := NewManager()
		config, err := manager.LoadConfig(projectDir)
		require.NoError(t, err)

		// Project config should override global for the editor
		assert.Equal(t, "vim", config.Editor.Preferred)

		// Global config should still provide the output format
		assert.Equal(t, "json", config.Global.OutputFormat)
	})

	t.Run("environment variable override", func(t *testing.T) {
		originalVerbose := os.Getenv("PERCH_VERBOSE")
		originalFormat := os.Getenv("PERCH_OUTPUT_FORMAT")
		defer func() {
			os.Setenv("PERCH_VERBOSE", originalVerbose)
			os.Setenv("PERCH_OUTPUT_FORMAT", originalFormat)
		}()

		os.Setenv("PERCH_VERBOSE", "true")
		os.Setenv("PERCH_OUTPUT_FORMAT", "yaml")

		manager := NewManager()
		config, err := manager.LoadConfig("")
		require.NoError(t, err)

		assert.True(t, config.Global.Verbose)
		assert.Equal(t, "yaml", config.Global.OutputFormat)
	})

	t.Run("editor variable does not reach config", func(t *testing.T) {
		// PERCH_EDITOR belongs to the resolver, not the config layer
		originalEditor := os.Getenv("PERCH_EDITOR")
		defer os.Setenv("PERCH_EDITOR", originalEditor)
		os.Setenv("PERCH_EDITOR", "vim")

		manager := NewManager()
		config, err := manager.LoadConfig("")
		require.NoError(t, err)

		assert.Empty(t, config.Editor.Preferred)
	})

	t.Run("malformed project config is skipped", func(t *testing.T) {
		projectDir := t.TempDir()
		projectConfigPath := filepath.Join(projectDir, ".perch.yaml")
		err := os.WriteFile(projectConfigPath, []byte("editor: [unclosed"), 0644)
		require.NoError(t, err)

		manager := NewManager()
		config, err := manager.LoadConfig(projectDir)
		require.NoError(t, err)

		assert.Empty(t, config.Editor.Preferred)
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		projectDir := t.TempDir()
		projectConfigPath := filepath.Join(projectDir, ".perch.yaml")
		projectConfig := `
launch:
  windowMethod: "maximize"
`
		err := os.WriteFile(projectConfigPath, []byte(projectConfig), 0644)
		require.NoError(t, err)

		manager := NewManager()
		_, err = manager.LoadConfig(projectDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported window method")
	})
}

func TestManager_SaveConfig(t *testing.T) {
	tempDir := t.TempDir()

	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)
	os.Setenv("HOME", tempDir)

	t.Run("save project config", func(t *testing.T) {
		projectDir := t.TempDir()
		config := getDefaultConfig()
		config.Editor.Preferred = "zed"
		config.Launch.WindowMethod = "new"

		manager := NewManager()
		err := manager.SaveConfig(config, projectDir, false)
		require.NoError(t, err)

		configPath := filepath.Join(projectDir, ".perch.yaml")
		assert.FileExists(t, configPath)

		savedConfig, err := manager.LoadConfig(projectDir)
		require.NoError(t, err)
		assert.Equal(t, "zed", savedConfig.Editor.Preferred)
		assert.Equal(t, "new", savedConfig.Launch.WindowMethod)
	})

	t.Run("save global config", func(t *testing.T) {
		config := getDefaultConfig()
		config.Editor.Preferred = "cursor"
		config.Global.OutputFormat = "simple"

		manager := NewManager()
		err := manager.SaveConfig(config, "", true)
		require.NoError(t, err)

		configPath := filepath.Join(tempDir, ".config", "perch", "config.yaml")
		assert.FileExists(t, configPath)

		savedConfig, err := manager.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "cursor", savedConfig.Editor.Preferred)
		assert.Equal(t, "simple", savedConfig.Global.OutputFormat)
	})

	t.Run("project config requires a path", func(t *testing.T) {
		manager := NewManager()
		err := manager.SaveConfig(getDefaultConfig(), "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project path is required")
	})
}

func TestManager_ValidateConfig(t *testing.T) {
	manager := NewManager()

	t.Run("valid config", func(t *testing.T) {
		config := getDefaultConfig()
		config.Launch.WindowMethod = "reuse"
		config.Launch.Workspace = t.TempDir()
		config.Global.OutputFormat = "json"

		errors := manager.ValidateConfig(config)
		assert.Empty(t, errors)
	})

	t.Run("invalid window method", func(t *testing.T) {
		config := getDefaultConfig()
		config.Launch.WindowMethod = "split"

		errors := manager.ValidateConfig(config)
		assert.NotEmpty(t, errors)
		assert.Contains(t, errors[0], "unsupported window method")
	})

	t.Run("missing workspace", func(t *testing.T) {
		config := getDefaultConfig()
		config.Launch.Workspace = filepath.Join(t.TempDir(), "nope")

		errors := manager.ValidateConfig(config)
		assert.NotEmpty(t, errors)
		assert.Contains(t, errors[0], "workspace does not exist")
	})

	t.Run("invalid output format", func(t *testing.T) {
		config := getDefaultConfig()
		config.Global.OutputFormat = "xml"

		errors := manager.ValidateConfig(config)
		assert.NotEmpty(t, errors)
		assert.Contains(t, errors[0], "unsupported output format")
	})
}

func TestManager_GetConfigPaths(t *testing.T) {
	tempDir := t.TempDir()

	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)
	os.Setenv("HOME", tempDir)

	manager := NewManager()

	t.Run("project and global paths", func(t *testing.T) {
		paths := manager.GetConfigPaths(tempDir)

		expected := []string{
			filepath.Join(tempDir, ".perch.yaml"),
			filepath.Join(tempDir, ".perch.yml"),
			filepath.Join(tempDir, ".perch.json"),
			filepath.Join(tempDir, ".config", "perch", "config.yaml"),
			filepath.Join(tempDir, ".config", "perch", "config.json"),
		}

		assert.Equal(t, expected, paths)
	})

	t.Run("global paths only", func(t *testing.T) {
		paths := manager.GetConfigPaths("")

		expected := []string{
			filepath.Join(tempDir, ".config", "perch", "config.yaml"),
			filepath.Join(tempDir, ".config", "perch", "config.json"),
		}

		assert.Equal(t, expected, paths)
	})
}
