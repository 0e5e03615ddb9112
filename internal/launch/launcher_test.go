package launch

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perch-tools/perch/internal/editor"
)

type stubResolver struct {
	id       *editor.Identity
	explicit []string
}

func (s *stubResolver) Resolve(explicit string) *editor.Identity {
	s.explicit = append(s.explicit, explicit)
	return s.id
}

type spawnCall struct {
	command string
	args    []string
	handle  *fakeHandle
}

// fakeSpawner hands out fakeHandles and records spawn/kill ordering.
type fakeSpawner struct {
	mu      sync.Mutex
	events  []string
	calls   []spawnCall
	err     error
	alive   bool // leave handles running until the test finishes them
	exit    int
	waitErr error
}

func (s *fakeSpawner) Spawn(command string, args []string) (handle, error) {
	s.record("spawn " + command)
	if s.err != nil {
		return nil, s.err
	}
	h := &fakeHandle{spawner: s, exit: s.exit, waitErr: s.waitErr, done: make(chan struct{})}
	s.mu.Lock()
	s.calls = append(s.calls, spawnCall{command: command, args: args, handle: h})
	s.mu.Unlock()
	if !s.alive {
		h.finish()
	}
	return h, nil
}

func (s *fakeSpawner) record(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *fakeSpawner) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *fakeSpawner) call(i int) spawnCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

type fakeHandle struct {
	spawner *fakeSpawner
	exit    int
	waitErr error
	done    chan struct{}
	once    sync.Once
	killed  bool
}

func (h *fakeHandle) Kill() error {
	h.spawner.record("kill")
	h.killed = true
	h.exit = -1
	h.finish()
	return nil
}

func (h *fakeHandle) Wait() (int, error) {
	<-h.done
	return h.exit, h.waitErr
}

func (h *fakeHandle) finish() {
	h.once.Do(func() { close(h.done) })
}

func newTestLauncher(t *testing.T, r resolver, s spawner) *Launcher {
	t.Helper()
	return &Launcher{
		resolver:  r,
		spawner:   s,
		getenv:    func(string) string { return "" },
		goos:      "linux",
		osRelease: func() string { return "" },
		workDir:   t.TempDir(),
	}
}

func tempFile(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(file, []byte("x\n"), 0644))
	return file
}

// errorRecorder collects OnError invocations; safe to read after the
// Result has been received.
type errorRecorder struct {
	files    []string
	messages []string
}

func (r *errorRecorder) callback() func(string, string) {
	return func(file, message string) {
		r.files = append(r.files, file)
		r.messages = append(r.messages, message)
	}
}

func TestOpenMissingFile(t *testing.T) {
	spawner := &fakeSpawner{}
	resolver := &stubResolver{id: &editor.Identity{Command: "code"}}
	launcher := newTestLauncher(t, resolver, spawner)
	recorder := &errorRecorder{}

	results := launcher.Open(Request{
		File:    filepath.Join(t.TempDir(), "missing.js"),
		Line:    3,
		OnError: recorder.callback(),
	})

	_, ok := <-results
	assert.False(t, ok, "channel must close without a result")
	assert.Empty(t, resolver.explicit, "no resolution for a missing file")
	assert.Empty(t, spawner.recorded(), "no spawn for a missing file")
	assert.Empty(t, recorder.files, "no callback for a missing file")
}

func TestOpenNoEditor(t *testing.T) {
	spawner := &fakeSpawner{}
	launcher := newTestLauncher(t, &stubResolver{}, spawner)
	recorder := &errorRecorder{}
	file := tempFile(t)

	result, ok := <-launcher.Open(Request{File: file, OnError: recorder.callback()})

	require.True(t, ok)
	assert.Equal(t, NoEditor, result.Outcome)
	assert.Empty(t, spawner.recorded())
	require.Len(t, recorder.files, 1)
	assert.Equal(t, file, recorder.files[0])
	assert.Empty(t, recorder.messages[0])
}

func TestOpenSuccess(t *testing.T) {
	spawner := &fakeSpawner{}
	resolver := &stubResolver{id: &editor.Identity{Command: "code", Name: "code"}}
	launcher := newTestLauncher(t, resolver, spawner)
	file := tempFile(t)

	result, ok := <-launcher.Open(Request{File: file, Line: 10, Column: 5})

	require.True(t, ok)
	assert.Equal(t, Success, result.Outcome)
	call := spawner.call(0)
	assert.Equal(t, "code", call.command)
	assert.Equal(t, []string{"-g", file + ":10:5"}, call.args)
}

func TestOpenPassesExplicitEditor(t *testing.T) {
	resolver := &stubResolver{id: &editor.Identity{Command: "code"}}
	launcher := newTestLauncher(t, resolver, &fakeSpawner{})
	file := tempFile(t)

	<-launcher.Open(Request{File: file, Editor: "subl"})

	assert.Equal(t, []string{"subl"}, resolver.explicit)
}

func TestOpenFixedLeadingArguments(t *testing.T) {
	resolver := &stubResolver{id: &editor.Identity{Command: "code", Args: []string{"--wait"}}}
	spawner := &fakeSpawner{}
	launcher := newTestLauncher(t, resolver, spawner)
	file := tempFile(t)

	<-launcher.Open(Request{File: file, Line: 2})

	call := spawner.call(0)
	assert.Equal(t, []string{"--wait", "-g", file + ":2:1"}, call.args)
}

func TestOpenWithoutLine(t *testing.T) {
	spawner := &fakeSpawner{}
	launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "vim"}}, spawner)
	file := tempFile(t)

	<-launcher.Open(Request{File: file})

	assert.Equal(t, []string{file}, spawner.call(0).args)
}

func TestOpenSpawnFailure(t *testing.T) {
	spawnErr := errors.New("exec: not found")
	spawner := &fakeSpawner{err: spawnErr}
	launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
	recorder := &errorRecorder{}
	file := tempFile(t)

	result, ok := <-launcher.Open(Request{File: file, Line: 1, OnError: recorder.callback()})

	require.True(t, ok)
	assert.Equal(t, SpawnFailure, result.Outcome)
	assert.ErrorIs(t, result.Err, spawnErr)
	require.Len(t, recorder.messages, 1)
	assert.Equal(t, "exec: not found", recorder.messages[0])
	assert.False(t, launcher.Current())
}

func TestOpenExitFailure(t *testing.T) {
	spawner := &fakeSpawner{exit: 2}
	launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
	recorder := &errorRecorder{}
	file := tempFile(t)

	result, ok := <-launcher.Open(Request{File: file, Line: 1, OnError: recorder.callback()})

	require.True(t, ok)
	assert.Equal(t, ExitFailure, result.Outcome)
	assert.Equal(t, 2, result.Code)
	require.Len(t, recorder.messages, 1)
	assert.Equal(t, "(code 2)", recorder.messages[0])
}

func TestOpenSignaledExitIsNotReported(t *testing.T) {
	spawner := &fakeSpawner{exit: -1}
	launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "vim"}}, spawner)
	recorder := &errorRecorder{}
	file := tempFile(t)

	result, ok := <-launcher.Open(Request{File: file, OnError: recorder.callback()})

	require.True(t, ok)
	assert.Equal(t, Success, result.Outcome)
	assert.Empty(t, recorder.messages)
}

func TestTerminalSingleton(t *testing.T) {
	t.Run("second terminal launch kills the first before spawning", func(t *testing.T) {
		spawner := &fakeSpawner{alive: true}
		resolver := &stubResolver{id: &editor.Identity{Command: "vim"}}
		launcher := newTestLauncher(t, resolver, spawner)
		file := tempFile(t)

		first := launcher.Open(Request{File: file, Line: 1})
		require.True(t, launcher.Current(), "terminal editor must be tracked")

		second := launcher.Open(Request{File: file, Line: 2})

		assert.Equal(t, []string{"spawn vim", "kill", "spawn vim"}, spawner.recorded())
		assert.True(t, spawner.call(0).handle.killed)

		result := <-first
		assert.Equal(t, Success, result.Outcome, "a replaced editor is not an error")

		spawner.call(1).handle.finish()
		<-second
		assert.False(t, launcher.Current())
	})

	t.Run("non-terminal launch never kills the tracked editor", func(t *testing.T) {
		spawner := &fakeSpawner{alive: true}
		resolver := &stubResolver{id: &editor.Identity{Command: "vim"}}
		launcher := newTestLauncher(t, resolver, spawner)
		file := tempFile(t)

		first := launcher.Open(Request{File: file, Line: 1})

		resolver.id = &editor.Identity{Command: "code"}
		second := launcher.Open(Request{File: file, Line: 2})

		assert.Equal(t, []string{"spawn vim", "spawn code"}, spawner.recorded())
		assert.False(t, spawner.call(0).handle.killed)
		assert.True(t, launcher.Current(), "the terminal editor stays tracked")
		assert.Zero(t, len(second), "GUI editor still running, no result yet")

		spawner.call(0).handle.finish()
		spawner.call(1).handle.finish()
		<-first
		<-second
	})

	t.Run("GUI editors are never tracked", func(t *testing.T) {
		spawner := &fakeSpawner{alive: true}
		launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
		file := tempFile(t)

		results := launcher.Open(Request{File: file, Line: 1})

		assert.False(t, launcher.Current())
		spawner.call(0).handle.finish()
		<-results
	})
}

func TestOpenFormatPrecedence(t *testing.T) {
	t.Run("PERCH_FORMAT environment variable wins", func(t *testing.T) {
		spawner := &fakeSpawner{}
		launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
		launcher.getenv = func(key string) string {
			if key == "PERCH_FORMAT" {
				return `"{file}@{line}"`
			}
			return ""
		}
		file := tempFile(t)

		<-launcher.Open(Request{File: file, Line: 10, Format: []string{"{file}#{line}"}})

		assert.Equal(t, []string{file + "@10"}, spawner.call(0).args)
	})

	t.Run("env file format is used when the variable is unset", func(t *testing.T) {
		spawner := &fakeSpawner{}
		launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
		require.NoError(t, os.WriteFile(
			filepath.Join(launcher.workDir, ".env.local"),
			[]byte(`PERCH_FORMAT="[\"--at\", \"{line}:{column}\", \"{file}\"]"`+"\n"), 0644))
		file := tempFile(t)

		<-launcher.Open(Request{File: file, Line: 10, Column: 5})

		assert.Equal(t, []string{"--at", "10:5", file}, spawner.call(0).args)
	})

	t.Run("request format applies when no source overrides it", func(t *testing.T) {
		spawner := &fakeSpawner{}
		launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
		file := tempFile(t)

		<-launcher.Open(Request{File: file, Line: 10, Format: []string{"{file}#{line}"}})

		assert.Equal(t, []string{file + "#10"}, spawner.call(0).args)
	})
}

func TestOpenWindowMethod(t *testing.T) {
	spawner := &fakeSpawner{}
	launcher := newTestLauncher(t, &stubResolver{id: &editor.Identity{Command: "code"}}, spawner)
	file := tempFile(t)

	<-launcher.Open(Request{File: file, Line: 10, Column: 5, Workspace: "/ws", Method: MethodReuse})

	assert.Equal(t, []string{"/ws", "-g", "-r", file + ":10:5"}, spawner.call(0).args)
}

func TestRewriteForInterop(t *testing.T) {
	newLauncher := func(goos, release, workDir string) *Launcher {
		return &Launcher{
			goos:      goos,
			osRelease: func() string { return release },
			workDir:   workDir,
		}
	}

	t.Run("rewrites to a relative path under WSL", func(t *testing.T) {
		l := newLauncher("linux", "5.15.90.1-microsoft-standard-WSL2", "/mnt/c/proj")
		assert.Equal(t, filepath.Join("src", "a.js"), l.rewriteForInterop("/mnt/c/proj/src/a.js"))
	})

	t.Run("detection is case-insensitive", func(t *testing.T) {
		l := newLauncher("linux", "4.4.0-43-Microsoft", "/mnt/c/proj")
		assert.Equal(t, "a.js", l.rewriteForInterop("/mnt/c/proj/a.js"))
	})

	t.Run("requires the mount prefix", func(t *testing.T) {
		l := newLauncher("linux", "5.15.90.1-microsoft-standard-WSL2", "/home/me")
		assert.Equal(t, "/home/me/a.js", l.rewriteForInterop("/home/me/a.js"))
	})

	t.Run("requires a compatibility-layer kernel", func(t *testing.T) {
		l := newLauncher("linux", "6.5.0-generic", "/mnt/c/proj")
		assert.Equal(t, "/mnt/c/proj/a.js", l.rewriteForInterop("/mnt/c/proj/a.js"))
	})

	t.Run("requires the linux family", func(t *testing.T) {
		l := newLauncher("darwin", "whatever-microsoft", "/mnt/c/proj")
		assert.Equal(t, "/mnt/c/proj/a.js", l.rewriteForInterop("/mnt/c/proj/a.js"))
	})
}

func TestChildEnv(t *testing.T) {
	env := childEnv([]string{"PATH=/bin", "NODE_OPTIONS=--inspect", "HOME=/root"})
	assert.Equal(t, []string{"PATH=/bin", "HOME=/root", "NODE_OPTIONS="}, env)

	env = childEnv([]string{"PATH=/bin"})
	assert.Equal(t, []string{"PATH=/bin", "NODE_OPTIONS="}, env)
}

func TestPrintGuide(t *testing.T) {
	var buf bytes.Buffer
	orig := guideWriter
	guideWriter = &buf
	defer func() { guideWriter = orig }()

	t.Run("names the configuration mechanisms", func(t *testing.T) {
		buf.Reset()
		printGuide("/proj/a.js", "")

		out := buf.String()
		assert.Contains(t, out, "Could not open a.js in the editor.")
		assert.Contains(t, out, "PERCH_EDITOR=code")
		assert.Contains(t, out, ".env.local")
		assert.NotContains(t, out, "exited with an error")
	})

	t.Run("includes the failure detail with a trailing period", func(t *testing.T) {
		buf.Reset()
		printGuide("/proj/a.js", "(code 2)")

		assert.Contains(t, buf.String(), "The editor process exited with an error: (code 2).")
	})
}
