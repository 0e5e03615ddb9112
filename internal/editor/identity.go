package editor

import "strings"

// Source identifies which resolution step produced an Identity.
type Source string

const (
	// SourceEnv means the PERCH_EDITOR process environment variable.
	SourceEnv Source = "environment"
	// SourceEnvFile means the PERCH_EDITOR key of the project .env.local.
	SourceEnvFile Source = "env-file"
	// SourceExplicit means an editor passed explicitly by the caller.
	SourceExplicit Source = "explicit"
	// SourceProcess means the editor was matched against running processes.
	SourceProcess Source = "running-process"
	// SourceVisual means the VISUAL environment fallback.
	SourceVisual Source = "visual-env"
	// SourceEditor means the EDITOR environment fallback.
	SourceEditor Source = "editor-env"
)

// Identity is the resolved way to invoke an editor: an executable path or
// command name plus any fixed leading arguments. Identities are resolved
// fresh for every launch; the running-process set changes between requests,
// so they must never be cached.
type Identity struct {
	Command string
	Args    []string
	Name    string // canonical editor name when known, "" otherwise
	Source  Source
}

// terminalEditors occupy the host's standard input/output, so at most one
// may be attached at a time.
var terminalEditors = map[string]bool{
	"vim":   true,
	"emacs": true,
	"nano":  true,
}

// IsTerminal reports whether the identity refers to a terminal-attached
// interactive editor.
func (id *Identity) IsTerminal() bool {
	return IsTerminalCommand(id.Command)
}

// IsTerminalCommand reports whether command names a terminal-attached
// interactive editor.
func IsTerminalCommand(command string) bool {
	return terminalEditors[pathBase(command)]
}

// pathBase returns the last path element of command. Both separators are
// accepted so Windows paths normalize correctly on any host.
func pathBase(command string) string {
	if i := strings.LastIndexAny(command, `/\`); i != -1 {
		return command[i+1:]
	}
	return command
}

// splitCommand breaks an editor override into a command and its arguments,
// honoring single and double quotes so paths with spaces survive intact.
func splitCommand(value string) []string {
	var fields []string
	var current strings.Builder
	var quote byte
	inField := false

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inField = true
		case c == ' ' || c == '\t':
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteByte(c)
			inField = true
		}
	}
	if inField {
		fields = append(fields, current.String())
	}

	return fields
}
