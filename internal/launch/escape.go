package launch

import "strings"

// cmdMetachars are the cmd.exe metacharacters that need a caret prefix
// when a command line is re-parsed by the shell.
const cmdMetachars = "&|<>,;=^"

// escapeCmdArg prefixes every cmd.exe metacharacter with a caret.
func escapeCmdArg(arg string) string {
	if !strings.ContainsAny(arg, cmdMetachars) {
		return arg
	}
	var b strings.Builder
	b.Grow(len(arg) + 4)
	for i := 0; i < len(arg); i++ {
		if strings.IndexByte(cmdMetachars, arg[i]) >= 0 {
			b.WriteByte('^')
		}
		b.WriteByte(arg[i])
	}
	return b.String()
}

// doubleQuoteIfNeeded wraps a token containing carets in caret-quotes, a
// token containing spaces in plain double quotes, and leaves everything
// else alone. Never both kinds of quoting on one token.
func doubleQuoteIfNeeded(token string) string {
	if strings.Contains(token, "^") {
		return `^"` + token + `^"`
	}
	if strings.Contains(token, " ") {
		return `"` + token + `"`
	}
	return token
}

// buildCommandLine assembles the single shell command line used on the
// Windows family: the editor is quoted but not escaped, each argument is
// escaped then quoted, and tokens are joined with spaces.
func buildCommandLine(editorCommand string, args []string) string {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, doubleQuoteIfNeeded(editorCommand))
	for _, arg := range args {
		tokens = append(tokens, doubleQuoteIfNeeded(escapeCmdArg(arg)))
	}
	return strings.Join(tokens, " ")
}
