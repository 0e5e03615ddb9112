package workspace

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Workspace is the project directory handed to workspace-aware editors so
// the file opens inside the right window.
type Workspace struct {
	root        string
	projectName string
}

// Detect locates the enclosing Git repository and uses its top level as
// the workspace. Callers outside a repository get an error and should
// fall back to launching without a workspace.
func Detect(dir string) (*Workspace, error) {
	root, err := gitTopLevel(dir)
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}

	return &Workspace{
		root:        root,
		projectName: filepath.Base(root),
	}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// ProjectName returns the workspace's base name.
func (w *Workspace) ProjectName() string {
	return w.projectName
}

// gitTopLevel returns the repository top level containing dir.
func gitTopLevel(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}
