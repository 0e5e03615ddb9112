package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/perch-tools/perch/internal/config"
	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/launch"
	"github.com/perch-tools/perch/internal/process"
	"github.com/perch-tools/perch/internal/workspace"
)

var (
	openEditor    string
	openWorkspace string
	reuseWindow   bool
	newWindow     bool
	openFormat    []string
	openLine      int
	openColumn    int
	openWait      bool
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <file[:line[:column]]>",
	Short: "Open a file in the running editor",
	Long: `Open a file in the detected editor, positioned at a line and column.

The target may carry the position as a :line or :line:column suffix. A
target that does not exist on disk is silently ignored.

Examples:
  perch open src/app.go             # Open the file
  perch open src/app.go:42          # Jump to line 42
  perch open src/app.go:42:7        # Jump to line 42, column 7
  perch open -e code src/app.go     # Force a specific editor
  perch open --reuse-window app.go  # Reuse the current VS Code window`,
	Aliases: []string{"o"},
	Args:    cobra.ExactArgs(1),
	RunE:    runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	// Flags for open command
	openCmd.Flags().StringVarP(&openEditor, "editor", "e", "", "editor to use instead of the detected one")
	openCmd.Flags().StringVarP(&openWorkspace, "workspace", "w", "", "workspace root for workspace-aware editors")
	openCmd.Flags().BoolVar(&reuseWindow, "reuse-window", false, "reuse the current editor window")
	openCmd.Flags().BoolVar(&newWindow, "new-window", false, "force a new editor window")
	openCmd.Flags().StringArrayVar(&openFormat, "format", nil, "custom argument template fragment (repeatable)")
	openCmd.Flags().IntVarP(&openLine, "line", "l", 0, "line to open at (overrides the target suffix)")
	openCmd.Flags().IntVarP(&openColumn, "column", "c", 0, "column to open at (overrides the target suffix)")
	openCmd.Flags().BoolVar(&openWait, "wait", false, "wait for the editor to exit")

	openCmd.MarkFlagsMutuallyExclusive("reuse-window", "new-window")
}

func runOpen(cmd *cobra.Command, args []string) error {
	// Flag values survive across in-process executions; restore the
	// defaults so the root alias starts clean.
	defer resetOpenFlags()

	file, line, column := launch.ParseTarget(args[0])
	if openLine > 0 {
		line = openLine
	}
	if openColumn > 0 {
		column = openColumn
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(projectDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	explicit := openEditor
	if explicit == "" {
		explicit = cfg.Editor.Preferred
	}

	ws := openWorkspace
	if ws == "" {
		ws = cfg.Launch.Workspace
	}
	if ws == "" {
		if project, err := workspace.Detect(projectDir); err == nil {
			ws = project.Root()
		}
	}

	method := launch.Method(cfg.Launch.WindowMethod)
	if reuseWindow {
		method = launch.MethodReuse
	} else if newWindow {
		method = launch.MethodNew
	}

	format := openFormat
	if len(format) == 0 {
		format = cfg.Editor.Format
	}

	launcher := launch.NewLauncher(editor.NewResolver(process.NewEnumerator()))

	results := launcher.Open(launch.Request{
		File:      file,
		Line:      line,
		Column:    column,
		Editor:    explicit,
		Workspace: ws,
		Method:    method,
		Format:    format,
	})

	return awaitLaunch(cmd, file, launcher, results, openWait || cfg.Launch.Wait)
}

// awaitLaunch drains the launch result, blocking while a terminal editor
// owns the console or when the caller asked to wait. Fire-and-forget
// launches report success as soon as the editor is running.
func awaitLaunch(cmd *cobra.Command, file string, launcher *launch.Launcher, results <-chan launch.Result, block bool) error {
	if block || launcher.Current() {
		result, ok := <-results
		if !ok {
			// Missing targets are a silent no-op
			return nil
		}
		return reportOutcome(cmd, file, result)
	}

	select {
	case result, ok := <-results:
		if !ok {
			return nil
		}
		return reportOutcome(cmd, file, result)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Opened %s\n", filepath.Base(file))
	}

	return nil
}

func reportOutcome(cmd *cobra.Command, file string, result launch.Result) error {
	switch result.Outcome {
	case launch.Success:
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Opened %s\n", filepath.Base(file))
		return nil
	case launch.NoEditor:
		return fmt.Errorf("no editor could be resolved")
	case launch.SpawnFailure:
		return fmt.Errorf("failed to launch the editor: %w", result.Err)
	case launch.ExitFailure:
		if result.Err != nil {
			return fmt.Errorf("the editor exited abnormally: %w", result.Err)
		}
		return fmt.Errorf("the editor exited with code %d", result.Code)
	}

	return nil
}

func resetOpenFlags() {
	openEditor = ""
	openWorkspace = ""
	reuseWindow = false
	newWindow = false
	openFormat = nil
	openLine = 0
	openColumn = 0
	openWait = false
}
