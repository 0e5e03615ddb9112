package process

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Enumerator lists the commands of the processes currently running on the
// machine. Paths are reported the way the operating system reports them:
// bare command names on macOS and Linux, absolute executable paths on
// Windows.
type Enumerator interface {
	List() ([]string, error)
}

// runner executes a command and returns its combined output. Extracted so
// tests can substitute canned process listings.
type runner func(name string, args ...string) ([]byte, error)

func systemRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// SystemEnumerator implements Enumerator using the platform's native
// process listing tools.
type SystemEnumerator struct {
	goos string
	run  runner
}

// NewEnumerator creates an enumerator for the current platform.
func NewEnumerator() *SystemEnumerator {
	return newEnumerator(runtime.GOOS, systemRunner)
}

func newEnumerator(goos string, run runner) *SystemEnumerator {
	return &SystemEnumerator{
		goos: goos,
		run:  run,
	}
}

// List returns the commands of all running processes, one per entry,
// trimmed and with empty lines removed.
func (e *SystemEnumerator) List() ([]string, error) {
	switch e.goos {
	case "windows":
		return e.listWindows()
	case "darwin":
		return e.listUnix("ps", "x", "-o", "comm=")
	default:
		return e.listUnix("ps", "x", "--no-heading", "-o", "comm", "--sort=comm")
	}
}

func (e *SystemEnumerator) listUnix(name string, args ...string) ([]string, error) {
	output, err := e.run(name, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	return splitLines(output, ""), nil
}

// listWindows queries WMI for executable paths. The code page is switched
// to UTF-8 first so paths with non-ASCII characters survive the pipe; the
// switch is best effort. wmic is deprecated on recent Windows builds, so a
// PowerShell CIM query serves as fallback.
func (e *SystemEnumerator) listWindows() ([]string, error) {
	e.run("cmd", "/c", "chcp", "65001")

	output, err := e.run("wmic",
		"process", "where", "executablepath is not null", "get", "executablepath")
	if err == nil {
		return splitLines(output, "ExecutablePath"), nil
	}

	output, err = e.run("powershell", "-NoProfile", "-Command",
		`Get-CimInstance -Query "select executablepath from win32_process where executablepath is not null" | % { $_.ExecutablePath }`)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	return splitLines(output, ""), nil
}

// splitLines breaks command output into trimmed lines, dropping blanks and
// an optional header line.
func splitLines(output []byte, header string) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (header != "" && line == header) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
