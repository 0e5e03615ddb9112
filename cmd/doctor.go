package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perch-tools/perch/internal/doctor"
	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/process"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose editor detection and launch setup",
	Long: `Diagnose the environment perch uses to detect and launch editors.

Checks the platform detection table, process enumeration, environment
variables, the project .env.local file, and configuration files.

Examples:
  perch doctor                  # Run all diagnostic checks
  perch doctor --format json    # Output results in JSON format
  perch doctor --simple         # Use simple output format`,
	Aliases: []string{"check", "diagnose"},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get flags
		outputFormat, _ := cmd.Flags().GetString("format")
		useSimple, _ := cmd.Flags().GetBool("simple")

		projectDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		enumerator := process.NewEnumerator()
		checker := doctor.NewChecker(editor.NewResolver(enumerator), enumerator, projectDir)

		// Run diagnostic checks
		result, err := checker.CheckSystem()
		if err != nil {
			return fmt.Errorf("diagnostic checks failed: %w", err)
		}

		// Output results in requested format
		out := cmd.OutOrStdout()
		switch outputFormat {
		case "json":
			fmt.Fprint(out, result.FormatAsJSON())
		case "simple":
			fmt.Fprint(out, result.FormatAsSimple())
		default:
			if useSimple {
				fmt.Fprint(out, result.FormatAsSimple())
			} else {
				fmt.Fprint(out, result.FormatAsTable())
			}
		}

		if result.GetOverallStatus() == doctor.CheckStatusFail {
			return fmt.Errorf("diagnostics found failing checks")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	// Add flags
	doctorCmd.Flags().StringP("format", "f", "table", "Output format (table, json, simple)")
	doctorCmd.Flags().Bool("simple", false, "Use simple output format")
}
