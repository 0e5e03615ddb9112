package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTarget(t *testing.T) {
	cases := []struct {
		name   string
		arg    string
		file   string
		line   int
		column int
	}{
		{"bare file", "/a/b.js", "/a/b.js", 0, 0},
		{"file with line", "/a/b.js:10", "/a/b.js", 10, 0},
		{"file with line and column", "/a/b.js:10:5", "/a/b.js", 10, 5},
		{"windows drive letter without position", `C:\a\b.js`, `C:\a\b.js`, 0, 0},
		{"windows drive letter with position", `C:\a\b.js:10:5`, `C:\a\b.js`, 10, 5},
		{"non-numeric suffix is part of the file", "a.js:ten", "a.js:ten", 0, 0},
		{"relative file with line", "src/main.go:42", "src/main.go", 42, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file, line, column := ParseTarget(tc.arg)
			assert.Equal(t, tc.file, file)
			assert.Equal(t, tc.line, line)
			assert.Equal(t, tc.column, column)
		})
	}
}

func TestMethodWindowFlag(t *testing.T) {
	assert.Equal(t, "-r", MethodReuse.windowFlag())
	assert.Equal(t, "-n", MethodNew.windowFlag())
	assert.Equal(t, "", MethodUnset.windowFlag())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "no-editor", NoEditor.String())
	assert.Equal(t, "spawn-failure", SpawnFailure.String())
	assert.Equal(t, "exit-failure", ExitFailure.String())
}
