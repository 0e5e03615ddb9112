package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/perch-tools/perch/internal/config"
	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/launch"
	"github.com/perch-tools/perch/internal/process"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage perch configuration",
	Long: `Manage perch configuration files and settings.

This command allows you to initialize, view, edit, and validate
configuration files for both project-specific and global settings.

Examples:
  perch config init                  # Initialize default config
  perch config show                  # Show current configuration
  perch config edit                  # Open the config in your editor
  perch config validate              # Validate configuration files`,
	Aliases: []string{"cfg"},
}

// configInitCmd initializes configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize perch configuration",
	Long: `Initialize perch configuration with default settings.

Examples:
  perch config init                  # Initialize project config
  perch config init --global         # Initialize global config
  perch config init --force          # Overwrite existing config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		force, _ := cmd.Flags().GetBool("force")

		manager := config.NewManager()

		var projectPath string
		if !global {
			var err error
			projectPath, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
		}

		// Check if config already exists
		var existingConfig string
		for _, path := range manager.GetConfigPaths(projectPath) {
			if _, err := os.Stat(path); err == nil {
				existingConfig = path
				break
			}
		}

		if existingConfig != "" && !force {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", existingConfig)
		}

		// Create default config
		defaultConfig, err := manager.LoadConfig("")
		if err != nil {
			return fmt.Errorf("failed to load default config: %w", err)
		}

		// Save config
		if err := manager.SaveConfig(defaultConfig, projectPath, global); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		out := cmd.OutOrStdout()
		if global {
			homeDir, _ := os.UserHomeDir()
			fmt.Fprintln(out, "✅ Initialized global configuration")
			fmt.Fprintf(out, "📁 Config location: %s\n", filepath.Join(homeDir, ".config", "perch", "config.yaml"))
		} else {
			fmt.Fprintln(out, "✅ Initialized project configuration")
			fmt.Fprintf(out, "📁 Config location: %s\n", filepath.Join(projectPath, ".perch.yaml"))
		}

		return nil
	},
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current perch configuration.

Shows the merged configuration from all sources including defaults,
global config, project config, and environment variables.

Examples:
  perch config show                  # Show current config
  perch config show --format json    # Show as JSON
  perch config show --format yaml    # Show as YAML
  perch config show --paths          # Show config file paths`,
	Aliases: []string{"get", "view"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		showPaths, _ := cmd.Flags().GetBool("paths")

		manager := config.NewManager()

		projectPath, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		out := cmd.OutOrStdout()

		// Show config paths if requested
		if showPaths {
			fmt.Fprintln(out, "📁 Configuration file search paths (in priority order):")
			for i, path := range manager.GetConfigPaths(projectPath) {
				exists := "❌"
				if _, err := os.Stat(path); err == nil {
					exists = "✅"
				}
				fmt.Fprintf(out, "%d. %s %s\n", i+1, exists, path)
			}
			fmt.Fprintln(out)
		}

		// Load and display config
		cfg, err := manager.LoadConfig(projectPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(cfg)
		case "yaml":
			encoder := yaml.NewEncoder(out)
			defer encoder.Close()
			return encoder.Encode(cfg)
		default:
			return displayConfigTable(out, cfg)
		}
	},
}

// configEditCmd opens the configuration in the detected editor
var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration in your editor",
	Long: `Open the perch configuration file in the detected editor.

Creates the file with default settings if it does not exist, then opens
it through the same launch pipeline as perch open.

Examples:
  perch config edit                  # Edit project config
  perch config edit --global         # Edit global config
  perch config edit --editor vim     # Use a specific editor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		editorHint, _ := cmd.Flags().GetString("editor")

		manager := config.NewManager()

		var configPath string
		var projectPath string

		if global {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			configPath = filepath.Join(homeDir, ".config", "perch", "config.yaml")
		} else {
			var err error
			projectPath, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			configPath = filepath.Join(projectPath, ".perch.yaml")
		}

		// Create config file if it doesn't exist
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			defaultConfig, err := manager.LoadConfig("")
			if err != nil {
				return fmt.Errorf("failed to load default config: %w", err)
			}

			if err := manager.SaveConfig(defaultConfig, projectPath, global); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "📝 Created new config file: %s\n", configPath)
		}

		launcher := launch.NewLauncher(editor.NewResolver(process.NewEnumerator()))

		results := launcher.Open(launch.Request{
			File:   configPath,
			Editor: editorHint,
		})

		return awaitLaunch(cmd, configPath, launcher, results, false)
	},
}

// configValidateCmd validates configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration files",
	Long: `Validate perch configuration files for syntax and semantic errors.

Examples:
  perch config validate              # Validate current config`,
	Aliases: []string{"check"},
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := config.NewManager()

		projectPath, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		out := cmd.OutOrStdout()

		// Load configuration; loading already rejects invalid settings
		cfg, err := manager.LoadConfig(projectPath)
		if err != nil {
			fmt.Fprintf(out, "❌ Configuration loading failed: %v\n", err)
			return err
		}

		errors := manager.ValidateConfig(cfg)
		if len(errors) == 0 {
			fmt.Fprintln(out, "✅ Configuration is valid")
			return nil
		}

		fmt.Fprintf(out, "❌ Found %d validation error(s):\n", len(errors))
		for i, message := range errors {
			fmt.Fprintf(out, "%d. %s\n", i+1, message)
		}

		return fmt.Errorf("configuration validation failed")
	},
}

// displayConfigTable displays configuration in a readable format
func displayConfigTable(out io.Writer, cfg *config.Config) error {
	fmt.Fprintln(out, "📋 Current perch configuration")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📝 Editor settings:")
	fmt.Fprintf(out, "  Preferred: %s\n", valueOrHint(cfg.Editor.Preferred, "(detect automatically)"))
	if len(cfg.Editor.Format) > 0 {
		fmt.Fprintf(out, "  Format:    %s\n", strings.Join(cfg.Editor.Format, " "))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "🚀 Launch settings:")
	fmt.Fprintf(out, "  Workspace:     %s\n", valueOrHint(cfg.Launch.Workspace, "(git root)"))
	fmt.Fprintf(out, "  Window method: %s\n", valueOrHint(cfg.Launch.WindowMethod, "(editor default)"))
	fmt.Fprintf(out, "  Wait:          %t\n", cfg.Launch.Wait)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "🌐 Global settings:")
	fmt.Fprintf(out, "  Verbose:       %t\n", cfg.Global.Verbose)
	fmt.Fprintf(out, "  Output format: %s\n", cfg.Global.OutputFormat)
	fmt.Fprintf(out, "  Color output:  %t\n", cfg.Global.ColorOutput)

	return nil
}

func valueOrHint(value, hint string) string {
	if value == "" {
		return hint
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configValidateCmd)

	// Flags for init command
	configInitCmd.Flags().Bool("global", false, "Initialize global configuration")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")

	// Flags for show command
	configShowCmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")
	configShowCmd.Flags().Bool("paths", false, "Show configuration file paths")

	// Flags for edit command
	configEditCmd.Flags().Bool("global", false, "Edit global configuration")
	configEditCmd.Flags().String("editor", "", "Editor to use for editing")
}
