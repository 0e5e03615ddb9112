package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/perch-tools/perch/internal/logger"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "perch",
	Short: "🎯 Open files in the editor you already have running",
	Long: `🎯 Perch - Editor Launcher

A command-line tool that figures out which editor you are using and opens
files in it at the right line and column. Detection checks the PERCH_EDITOR
variable, the project .env.local file, your running processes, and finally
the VISUAL and EDITOR variables.

Examples:
  perch src/app.go:42:7        # Open a file at line 42, column 7
  perch open src/app.go:42     # Same, spelled out
  perch detect                 # Show which editor perch would use
  perch doctor                 # Diagnose detection problems`,
	Version: "1.0.0",
	// Default command: open the given target
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.UpdateVerbose()

		if viper.GetBool("no-color") {
			color.NoColor = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			// If a target is provided, run the open command
			return runOpen(cmd, args)
		}
		// Otherwise show help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/perch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in the perch config directory and the home directory.
		viper.AddConfigPath(home + "/.config/perch")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PERCH")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
