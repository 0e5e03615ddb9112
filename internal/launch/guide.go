package launch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/perch-tools/perch/internal/envfile"
)

var (
	guideProblem = color.New(color.FgRed)
	guideExample = color.New(color.FgCyan)
	guideFile    = color.New(color.FgGreen)
)

// guideWriter is swapped by tests to capture the printed guide.
var guideWriter io.Writer = os.Stdout

// printGuide tells the user how to configure an editor. It is the default
// failure surface when no error callback is registered; message carries
// the failure detail and is empty for a pure resolution failure.
func printGuide(file, message string) {
	fmt.Fprintln(guideWriter)
	guideProblem.Fprintf(guideWriter, "Could not open %s in the editor.\n", filepath.Base(file))
	if message != "" {
		if !strings.HasSuffix(message, ".") {
			message += "."
		}
		guideProblem.Fprintf(guideWriter, "The editor process exited with an error: %s\n", message)
	}
	fmt.Fprintln(guideWriter)
	fmt.Fprintf(guideWriter,
		"To set up the editor integration, add something like %s to the %s file in your project folder, or set the %s environment variable, and try again.\n",
		guideExample.Sprint("PERCH_EDITOR=code"),
		guideFile.Sprint(envfile.FileName),
		guideExample.Sprint(envfile.EditorKey))
	fmt.Fprintln(guideWriter)
}
