package editor

import (
	"os"
	"runtime"
	"strings"

	"github.com/perch-tools/perch/internal/envfile"
	"github.com/perch-tools/perch/internal/process"
)

// Resolver decides which editor command a launch should use. Overrides are
// consulted first, then the running-process set, then the classic VISUAL
// and EDITOR variables. Resolution runs fresh on every call; the process
// set can change between requests.
type Resolver struct {
	enumerator process.Enumerator
	getenv     func(string) string
	projectDir string
	goos       string
}

// NewResolver creates a resolver for the current platform, process
// environment, and working directory.
func NewResolver(enumerator process.Enumerator) *Resolver {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &Resolver{
		enumerator: enumerator,
		getenv:     os.Getenv,
		projectDir: dir,
		goos:       runtime.GOOS,
	}
}

// Resolve returns the editor to use, or nil when nothing could be
// identified. The explicit parameter ranks below the PERCH_EDITOR
// environment variable and the project .env.local.
//
// An override naming a known editor marks that editor as preferred for the
// process scan; an override naming anything else is returned verbatim,
// split into command and arguments, with no scan at all.
func (r *Resolver) Resolve(explicit string) *Identity {
	value, source := r.getenv(envfile.EditorKey), SourceEnv
	if value == "" {
		value, source = envfile.Load(r.projectDir).Editor, SourceEnvFile
	}
	if value == "" {
		value, source = explicit, SourceExplicit
	}

	var preferred string
	if value != "" {
		name, known := r.knownName(value)
		if !known {
			return literalIdentity(value, source)
		}
		preferred = name
	}

	if id := r.scan(preferred); id != nil {
		return id
	}

	if visual := r.getenv("VISUAL"); visual != "" {
		return &Identity{Command: visual, Source: SourceVisual}
	}
	if fallback := r.getenv("EDITOR"); fallback != "" {
		return &Identity{Command: fallback, Source: SourceEditor}
	}
	return nil
}

// knownName reports whether value names an entry of the current platform's
// table. Multi-word overrides never match; they carry embedded arguments
// and must be taken literally.
func (r *Resolver) knownName(value string) (string, bool) {
	name := strings.ToLower(value)
	for _, entry := range tableFor(r.goos) {
		if entry.name == name {
			return name, true
		}
	}
	return "", false
}

func literalIdentity(value string, source Source) *Identity {
	fields := splitCommand(value)
	if len(fields) == 0 {
		return &Identity{Command: value, Source: source}
	}
	id := &Identity{Command: fields[0], Source: source}
	if len(fields) > 1 {
		id.Args = fields[1:]
	}
	return id
}

// scan matches the running-process set against the platform table. A match
// for the preferred editor wins immediately; otherwise the first match in
// table order does. Listing failures are absorbed as "nothing running" so
// resolution can continue to the environment fallbacks.
func (r *Resolver) scan(preferred string) *Identity {
	listing, err := r.enumerator.List()
	if err != nil || len(listing) == 0 {
		return nil
	}

	var first *Identity
	for _, entry := range tableFor(r.goos) {
		id := r.match(entry, listing)
		if id == nil {
			continue
		}
		if preferred != "" && entry.name == preferred {
			return id
		}
		if first == nil {
			first = id
		}
	}
	return first
}

// match applies the platform's detection rule for one table entry.
func (r *Resolver) match(entry tableEntry, listing []string) *Identity {
	switch r.goos {
	case "windows":
		// Base name equality against the full executable path; the
		// discovered path is the command to launch.
		for _, line := range listing {
			for _, proc := range entry.processes {
				if pathBase(line) == proc {
					return &Identity{Command: line, Name: entry.name, Source: SourceProcess}
				}
			}
		}
	case "darwin":
		// Suffix match so installs outside /Applications are found.
		// App-internal commands are re-rooted at the discovered prefix;
		// PATH shims are used as-is.
		for _, line := range listing {
			for _, proc := range entry.processes {
				if strings.HasSuffix(line, proc) {
					command := entry.command
					if strings.Contains(command, "/") {
						command = strings.TrimSuffix(line, proc) + command
					}
					return &Identity{Command: command, Name: entry.name, Source: SourceProcess}
				}
			}
		}
	default:
		// Substring presence over the raw listing text.
		raw := strings.Join(listing, "\n")
		for _, proc := range entry.processes {
			if strings.Contains(raw, proc) {
				return &Identity{Command: entry.command, Name: entry.name, Source: SourceProcess}
			}
		}
	}
	return nil
}
