package launch

import (
	"regexp"
	"strconv"
)

// Method selects how a GUI editor should place the opened file. Families
// without a window concept ignore it.
type Method string

const (
	MethodUnset Method = ""
	MethodReuse Method = "reuse"
	MethodNew   Method = "new"
)

// windowFlag translates the method into the VS-Code family's window flag.
func (m Method) windowFlag() string {
	switch m {
	case MethodReuse:
		return "-r"
	case MethodNew:
		return "-n"
	default:
		return ""
	}
}

// Request describes one open-request. Line 0 means "no position": the
// editor receives the bare file. A zero Column with a line present
// defaults to column 1.
type Request struct {
	File      string
	Line      int
	Column    int
	Editor    string // explicit override, ranked below PERCH_EDITOR and .env.local
	Workspace string
	Method    Method
	Format    []string // custom templates, ranked below the PERCH_FORMAT sources
	OnError   func(file, message string)
}

// Outcome classifies how a launch concluded.
type Outcome int

const (
	// Success covers a clean exit and, for GUI editors, a detached start.
	Success Outcome = iota
	// NoEditor means resolution identified nothing to launch.
	NoEditor
	// SpawnFailure means the OS could not create the process.
	SpawnFailure
	// ExitFailure means the editor exited with a non-zero code.
	ExitFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NoEditor:
		return "no-editor"
	case SpawnFailure:
		return "spawn-failure"
	case ExitFailure:
		return "exit-failure"
	default:
		return "unknown"
	}
}

// Result is the single completion notification of one launch.
type Result struct {
	Outcome Outcome
	Code    int   // exit code when Outcome is ExitFailure
	Err     error // underlying error when Outcome is SpawnFailure
}

// targetPattern splits trailing :line[:column] off a file argument. The
// file part is matched lazily so Windows drive letters survive.
var targetPattern = regexp.MustCompile(`^(.*?):(\d+)(?::(\d+))?$`)

// ParseTarget parses a file[:line[:column]] command-line argument. An
// argument without a position parses as the file alone with line 0.
func ParseTarget(arg string) (file string, line, column int) {
	m := targetPattern.FindStringSubmatch(arg)
	if m == nil {
		return arg, 0, 0
	}
	line, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		column, _ = strconv.Atoi(m[3])
	}
	return m[1], line, column
}
