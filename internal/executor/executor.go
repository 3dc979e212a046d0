// Package executor abstracts system command execution so deploy targets that
// shell out (rsync transfers, remote chown/chmod over ssh, service reload
// signals) can be tested without touching the system.
package executor

import (
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments and returns
	// its combined output
	Execute(name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// String renders the call the way it would appear on a shell command line.
func (c CommandCall) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	// ExecuteFunc, when set, handles every Execute call.
	ExecuteFunc func(name string, args ...string) ([]byte, error)
	// FailOn maps a command name to the error Execute returns for it.
	// Checked only when ExecuteFunc is nil.
	FailOn map[string]error
	// MissingBinaries lists names LookPath reports as not installed.
	MissingBinaries []string
	// Calls records every Execute invocation in order.
	Calls []CommandCall
}

// Execute records the call and returns the configured result
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	if err, ok := m.FailOn[name]; ok {
		return []byte(err.Error()), err
	}
	return []byte(""), nil
}

// LookPath reports configured binaries as present under /usr/bin
func (m *MockExecutor) LookPath(file string) (string, error) {
	for _, missing := range m.MissingBinaries {
		if missing == file {
			return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
		}
	}
	return "/usr/bin/" + file, nil
}

// CallsFor returns the recorded calls matching the given command name.
func (m *MockExecutor) CallsFor(name string) []CommandCall {
	var out []CommandCall
	for _, c := range m.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
