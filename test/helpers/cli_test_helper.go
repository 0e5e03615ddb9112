package helpers

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// CLITestHelper provides utilities for testing CLI commands
type CLITestHelper struct {
	t      *testing.T
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// NewCLITestHelper creates a new CLI test helper
func NewCLITestHelper(t *testing.T) *CLITestHelper {
	return &CLITestHelper{
		t:      t,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

// ExecuteCommand executes a Cobra command with the given arguments
func (h *CLITestHelper) ExecuteCommand(cmd *cobra.Command, args ...string) error {
	// Reset buffers
	h.stdout.Reset()
	h.stderr.Reset()

	// Set command output
	cmd.SetOut(h.stdout)
	cmd.SetErr(h.stderr)

	// Set arguments
	cmd.SetArgs(args)

	// Execute command
	return cmd.Execute()
}

// GetStdout returns the stdout output as a string
func (h *CLITestHelper) GetStdout() string {
	return h.stdout.String()
}

// GetStderr returns the stderr output as a string
func (h *CLITestHelper) GetStderr() string {
	return h.stderr.String()
}

// AssertStdoutContains asserts that stdout contains the expected string
func (h *CLITestHelper) AssertStdoutContains(expected string) {
	require.Contains(h.t, h.GetStdout(), expected, "stdout should contain: %s", expected)
}

// AssertStdoutNotContains asserts that stdout does not contain the string
func (h *CLITestHelper) AssertStdoutNotContains(unexpected string) {
	require.NotContains(h.t, h.GetStdout(), unexpected, "stdout should not contain: %s", unexpected)
}

// MockEnvironment provides utilities for mocking environment
type MockEnvironment struct {
	t           *testing.T
	originalEnv map[string]string
	originalWd  string
}

// NewMockEnvironment creates a new mock environment
func NewMockEnvironment(t *testing.T) *MockEnvironment {
	originalWd, err := os.Getwd()
	require.NoError(t, err)

	return &MockEnvironment{
		t:           t,
		originalEnv: make(map[string]string),
		originalWd:  originalWd,
	}
}

// SetEnv sets an environment variable and remembers the original value
func (m *MockEnvironment) SetEnv(key, value string) {
	if _, remembered := m.originalEnv[key]; !remembered {
		m.originalEnv[key] = os.Getenv(key)
	}
	require.NoError(m.t, os.Setenv(key, value))
}

// ChangeDir changes the working directory
func (m *MockEnvironment) ChangeDir(dir string) {
	require.NoError(m.t, os.Chdir(dir))
}

// Cleanup restores the original environment and working directory
func (m *MockEnvironment) Cleanup() {
	// Restore working directory
	require.NoError(m.t, os.Chdir(m.originalWd))

	// Restore environment variables
	for key, original := range m.originalEnv {
		if original == "" {
			require.NoError(m.t, os.Unsetenv(key))
		} else {
			require.NoError(m.t, os.Setenv(key, original))
		}
	}
}
