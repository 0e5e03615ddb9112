//go:build !windows

package launch

import "os/exec"

// buildCommand spawns the editor directly; no shell interpretation
// happens outside the Windows family.
func buildCommand(command string, args []string) *exec.Cmd {
	return exec.Command(command, args...)
}
