package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/envfile"
	"github.com/perch-tools/perch/internal/process"
)

var (
	detectEditor string
	detectOutput string
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show which editor would be used",
	Long: `Show the editor perch would launch, without launching anything.

Runs the full resolution chain: PERCH_EDITOR, the project .env.local,
running processes, then VISUAL and EDITOR.

Examples:
  perch detect                  # Show the detected editor
  perch detect -o json          # Machine-readable output
  perch detect -e cursor        # Resolve as if --editor cursor was passed`,
	Aliases: []string{"which"},
	Args:    cobra.NoArgs,
	RunE:    runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	// Flags for detect command
	detectCmd.Flags().StringVarP(&detectEditor, "editor", "e", "", "editor hint, as if passed to open")
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "text", "output format (text, json, yaml)")
}

// detectReport is the serializable view of a resolved editor
type detectReport struct {
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Source  string   `json:"source" yaml:"source"`
	Example []string `json:"example" yaml:"example"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	defer resetDetectFlags()

	resolver := editor.NewResolver(process.NewEnumerator())

	identity := resolver.Resolve(detectEditor)
	if identity == nil {
		return fmt.Errorf("no editor detected: set %s, VISUAL, or EDITOR, or start your editor", envfile.EditorKey)
	}

	// Show how a typical open request would be rendered
	example := append([]string{identity.Command}, identity.Args...)
	example = append(example, editor.Arguments(identity.Command, editor.Position{
		File:   "src/app.go",
		Line:   42,
		Column: 7,
	})...)

	report := detectReport{
		Command: identity.Command,
		Args:    identity.Args,
		Name:    identity.Name,
		Source:  string(identity.Source),
		Example: example,
	}

	out := cmd.OutOrStdout()

	switch detectOutput {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	case "text":
		fmt.Fprintln(out, "📝 Detected editor")
		fmt.Fprintf(out, "  Command: %s\n", report.Command)
		if report.Name != "" {
			fmt.Fprintf(out, "  Name:    %s\n", report.Name)
		}
		if len(report.Args) > 0 {
			fmt.Fprintf(out, "  Args:    %s\n", strings.Join(report.Args, " "))
		}
		fmt.Fprintf(out, "  Source:  %s\n", report.Source)
		fmt.Fprintf(out, "  Example: %s\n", strings.Join(report.Example, " "))
	default:
		return fmt.Errorf("unsupported output format: %s", detectOutput)
	}

	return nil
}

func resetDetectFlags() {
	detectEditor = ""
	detectOutput = "text"
}
