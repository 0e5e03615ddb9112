package launch

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// handle is a spawned editor process being watched.
type handle interface {
	Kill() error
	// Wait blocks until the process exits and returns its exit code.
	// A non-nil error means waiting itself failed, not a non-zero exit.
	Wait() (int, error)
}

// spawner starts editor processes. Tests substitute fakes to observe
// kill/spawn ordering without creating real processes.
type spawner interface {
	Spawn(command string, args []string) (handle, error)
}

// execSpawner launches editors through os/exec with the host's stdio
// inherited, so terminal editors take over the session directly.
type execSpawner struct{}

func (execSpawner) Spawn(command string, args []string) (handle, error) {
	cmd := buildCommand(command, args)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = childEnv(os.Environ())

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) Kill() error {
	return h.cmd.Process.Kill()
}

func (h *execHandle) Wait() (int, error) {
	err := h.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// childEnv returns env with NODE_OPTIONS forced empty. Electron-based
// editors would otherwise execute injected Node startup flags meant for
// the host process.
func childEnv(env []string) []string {
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, "NODE_OPTIONS=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "NODE_OPTIONS=")
}
