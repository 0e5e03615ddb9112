//go:build windows

package launch

import (
	"os/exec"
	"syscall"
)

// buildCommand runs the escaped command line through cmd.exe. The line is
// passed verbatim via CmdLine; Go's default argv quoting would undo the
// caret escaping.
func buildCommand(command string, args []string) *exec.Cmd {
	cmd := exec.Command("cmd.exe")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `cmd.exe /d /s /c "` + buildCommandLine(command, args) + `"`,
	}
	return cmd
}
