package editor

import (
	"strconv"
	"strings"
)

// Position is a normalized open-request handed to argument synthesis.
// Line 0 means "no position": the editor is asked to open the bare file.
type Position struct {
	File           string
	Line           int
	Column         int
	Workspace      string
	OpenWindowFlag string   // VS-Code family window flag, "" when unset
	Format         []string // custom templates overriding the family rule
}

// ruleKind selects how a formatRule turns a Position into arguments.
type ruleKind int

const (
	// ruleTemplates renders a fixed list of placeholder templates.
	ruleTemplates ruleKind = iota
	// ruleVSCode renders [workspace] -g [windowFlag] {file}:{line}:{column}.
	ruleVSCode
	// ruleJetBrains renders [workspace] --line {line} {file}.
	ruleJetBrains
)

// formatRule is the invocation convention of one editor family. Ordering
// of the rendered arguments is load-bearing: editors parse positionals
// strictly, so workspace precedes flags precedes the file spec.
type formatRule struct {
	kind      ruleKind
	templates []string
}

var familyRules = buildFamilyRules()

func buildFamilyRules() map[string]formatRule {
	rules := make(map[string]formatRule)
	register := func(rule formatRule, names ...string) {
		for _, name := range names {
			rules[name] = rule
		}
	}

	register(formatRule{templates: []string{"{file}:{line}:{column}"}},
		"atom", "atom beta", "atom-beta", "subl", "sublime", "sublime_text", "wstorm", "charm", "zed")
	register(formatRule{templates: []string{"-n{line}", "-c{column}", "{file}"}},
		"notepad++")
	register(formatRule{templates: []string{"+call cursor({line}, {column})", "{file}"}},
		"vim", "mvim", "nvim")
	register(formatRule{templates: []string{"+{line}", "{file}"}},
		"joe", "gvim")
	register(formatRule{templates: []string{"+{line}:{column}", "{file}"}},
		"emacs", "emacsclient")
	register(formatRule{templates: []string{"--line", "{line}", "{file}"}},
		"rmate", "mate", "mine")
	register(formatRule{kind: ruleVSCode},
		"code", "code - insiders", "code-insiders", "codium", "vscodium", "cursor", "windsurf")
	register(formatRule{kind: ruleJetBrains},
		"appcode", "clion", "clion64", "idea", "idea64", "phpstorm", "phpstorm64",
		"pycharm", "pycharm64", "rubymine", "rubymine64", "webstorm", "webstorm64",
		"goland", "goland64", "rider", "rider64", "fleet")

	return rules
}

// defaultRule applies to editors outside every known family.
var defaultRule = formatRule{templates: []string{"{file}:{line}:{column}"}}

// Basename normalizes an editor command to the canonical lowercase name
// used by the family rules: known installed-binary paths map back to their
// table name, anything else is reduced to its base name with a Windows
// executable extension stripped. Normalizing an already-canonical name is
// a no-op.
func Basename(command string) string {
	for _, entry := range allEntries() {
		for _, proc := range entry.processes {
			if matchesSuffix(command, proc) {
				return entry.name
			}
		}
	}

	name := pathBase(command)
	lower := strings.ToLower(name)
	for _, ext := range []string{".exe", ".cmd", ".bat"} {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return strings.ToLower(name)
}

// Arguments synthesizes the ordered argument vector for opening pos in the
// given editor command. A request without a line yields exactly [file]; a
// caller-supplied format always wins over the family rule; editors with no
// family and no override fall back to {file}:{line}:{column}.
func Arguments(command string, pos Position) []string {
	if pos.Line <= 0 {
		return []string{pos.File}
	}
	if pos.Column <= 0 {
		pos.Column = 1
	}

	rule, known := familyRules[Basename(command)]
	switch {
	case len(pos.Format) > 0:
		rule = formatRule{templates: pos.Format}
	case !known:
		rule = defaultRule
	}

	return rule.arguments(pos)
}

func (r formatRule) arguments(pos Position) []string {
	switch r.kind {
	case ruleVSCode:
		var args []string
		if pos.Workspace != "" {
			args = append(args, pos.Workspace)
		}
		args = append(args, "-g")
		if pos.OpenWindowFlag != "" {
			args = append(args, pos.OpenWindowFlag)
		}
		return append(args, substitute("{file}:{line}:{column}", pos))
	case ruleJetBrains:
		var args []string
		if pos.Workspace != "" {
			args = append(args, pos.Workspace)
		}
		return append(args, "--line", strconv.Itoa(pos.Line), pos.File)
	default:
		args := make([]string, 0, len(r.templates))
		for _, template := range r.templates {
			args = append(args, substitute(template, pos))
		}
		return args
	}
}

// matchesSuffix reports whether command ends with proc on a path-element
// boundary, so a bare "mvim" does not hit the "vim" table key. Process
// paths that carry their own leading separator match as plain suffixes.
func matchesSuffix(command, proc string) bool {
	if !strings.HasSuffix(command, proc) {
		return false
	}
	if len(command) == len(proc) || strings.HasPrefix(proc, "/") {
		return true
	}
	boundary := command[len(command)-len(proc)-1]
	return boundary == '/' || boundary == '\\'
}

// substitute replaces the first occurrence of each placeholder. Literal
// replacement only; repeated placeholders beyond the first stay as-is.
func substitute(template string, pos Position) string {
	s := strings.Replace(template, "{file}", pos.File, 1)
	s = strings.Replace(s, "{line}", strconv.Itoa(pos.Line), 1)
	return strings.Replace(s, "{column}", strconv.Itoa(pos.Column), 1)
}
