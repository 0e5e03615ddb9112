package envfile

import (
	"encoding/json"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Recognized keys. The same names are honored as process environment
// variables, which take precedence over the file.
const (
	// EditorKey names the editor command to launch.
	EditorKey = "PERCH_EDITOR"
	// FormatKey holds a JSON-encoded path format: either a single template
	// string or a list of template strings with {file}, {line} and {column}
	// placeholders.
	FormatKey = "PERCH_FORMAT"
)

// FileName is the project-local file consulted for overrides.
const FileName = ".env.local"

// Env holds the overrides read from a project .env.local file.
type Env struct {
	Editor string   // editor command, "" when absent
	Format []string // decoded format templates, nil when absent or invalid
}

// Load reads the .env.local file in dir and extracts the recognized keys.
// A missing or unreadable file yields a zero Env; there is no error path
// because configuration problems must never break a launch.
func Load(dir string) Env {
	values, err := godotenv.Read(filepath.Join(dir, FileName))
	if err != nil {
		return Env{}
	}

	return Env{
		Editor: values[EditorKey],
		Format: DecodeFormat(values[FormatKey]),
	}
}

// DecodeFormat parses a JSON-encoded format value. Accepted shapes are a
// single string ("{file}:{line}") and a list of strings (["-g", "{file}"]).
// Anything else, including malformed JSON, decodes to nil so that a bad
// override silently falls back to the built-in per-editor rules.
func DecodeFormat(raw string) []string {
	if raw == "" {
		return nil
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		return list
	}

	return nil
}
