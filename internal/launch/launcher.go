package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/perch-tools/perch/internal/editor"
	"github.com/perch-tools/perch/internal/envfile"
	"github.com/perch-tools/perch/internal/logger"
)

// resolver is the slice of editor.Resolver the launcher needs.
type resolver interface {
	Resolve(explicit string) *editor.Identity
}

// Launcher runs the resolve → synthesize → spawn pipeline and tracks at
// most one terminal-attached child. Construct one per host process;
// independent instances never interfere.
type Launcher struct {
	resolver  resolver
	spawner   spawner
	getenv    func(string) string
	goos      string
	osRelease func() string
	workDir   string

	mu      sync.Mutex
	current handle // tracked terminal editor, nil when none
}

// NewLauncher wires a launcher for the current platform and environment.
func NewLauncher(r *editor.Resolver) *Launcher {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &Launcher{
		resolver:  r,
		spawner:   execSpawner{},
		getenv:    os.Getenv,
		goos:      runtime.GOOS,
		osRelease: kernelRelease,
		workDir:   dir,
	}
}

// Open performs one launch. The returned channel receives exactly one
// Result and closes. A request whose file does not exist on disk is a
// silent no-op: the channel closes without sending and nothing is reported.
//
// Open never returns an error; every failure travels through the OnError
// callback (or the console guide) and the Result.
func (l *Launcher) Open(req Request) <-chan Result {
	results := make(chan Result, 1)

	if _, err := os.Stat(req.File); err != nil {
		close(results)
		return results
	}

	id := l.resolver.Resolve(req.Editor)
	if id == nil {
		l.report(req, "")
		results <- Result{Outcome: NoEditor}
		close(results)
		return results
	}
	logger.Debug("resolved editor %q (source: %s)", id.Command, id.Source)

	file := l.rewriteForInterop(req.File)
	pos := editor.Position{
		File:           file,
		Line:           req.Line,
		Column:         req.Column,
		Workspace:      req.Workspace,
		OpenWindowFlag: req.Method.windowFlag(),
		Format:         l.effectiveFormat(req),
	}
	args := append(append([]string{}, id.Args...), editor.Arguments(id.Command, pos)...)

	terminal := editor.IsTerminalCommand(id.Command)
	if terminal {
		l.killCurrent()
	}

	logger.Debug("spawning %s %s", id.Command, strings.Join(args, " "))
	child, err := l.spawner.Spawn(id.Command, args)
	if err != nil {
		l.report(req, err.Error())
		results <- Result{Outcome: SpawnFailure, Err: err}
		close(results)
		return results
	}

	if terminal {
		l.mu.Lock()
		l.current = child
		l.mu.Unlock()
	}

	go l.watch(child, terminal, req, results)
	return results
}

// Current reports whether a terminal editor is currently tracked.
func (l *Launcher) Current() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// killCurrent force-terminates the tracked terminal editor. Two terminal
// editors must never attach to the same stdio, and the fixed window
// between kill and the next spawn is accepted.
func (l *Launcher) killCurrent() {
	l.mu.Lock()
	current := l.current
	l.current = nil
	l.mu.Unlock()

	if current != nil {
		if err := current.Kill(); err != nil {
			logger.Debug("could not terminate previous editor: %v", err)
		}
	}
}

// watch delivers the single Result for one child and clears the tracked
// handle when the child owned it.
func (l *Launcher) watch(child handle, terminal bool, req Request, results chan<- Result) {
	code, err := child.Wait()

	if terminal {
		l.mu.Lock()
		if l.current == child {
			l.current = nil
		}
		l.mu.Unlock()
	}

	switch {
	case err != nil:
		l.report(req, err.Error())
		results <- Result{Outcome: ExitFailure, Code: code, Err: err}
	case code > 0:
		l.report(req, fmt.Sprintf("(code %d)", code))
		results <- Result{Outcome: ExitFailure, Code: code}
	default:
		// Negative codes mean the child was signaled, which happens
		// every time a terminal editor is replaced; not an error.
		results <- Result{Outcome: Success, Code: code}
	}
	close(results)
}

// report invokes the caller's error callback when registered, otherwise
// prints the console remediation guide.
func (l *Launcher) report(req Request, message string) {
	if req.OnError != nil {
		req.OnError(req.File, message)
		return
	}
	printGuide(req.File, message)
}

// effectiveFormat picks the custom format templates: the PERCH_FORMAT
// environment variable wins over the project .env.local, which wins over
// the request's own templates.
func (l *Launcher) effectiveFormat(req Request) []string {
	if format := envfile.DecodeFormat(l.getenv(envfile.FormatKey)); format != nil {
		return format
	}
	if format := envfile.Load(l.workDir).Format; format != nil {
		return format
	}
	return req.Format
}

// rewriteForInterop makes the path relative when a Windows editor is
// reached through the WSL interop layer: absolute Linux paths mean
// nothing to it, relative ones survive the boundary.
func (l *Launcher) rewriteForInterop(file string) string {
	if l.goos != "linux" || !strings.HasPrefix(file, "/mnt/") {
		return file
	}
	if !strings.Contains(strings.ToLower(l.osRelease()), "microsoft") {
		return file
	}
	rel, err := filepath.Rel(l.workDir, file)
	if err != nil {
		return file
	}
	return rel
}

// kernelRelease reads the running kernel's release string; empty on
// platforms without procfs.
func kernelRelease() string {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
