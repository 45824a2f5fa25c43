// SPDX-License-Identifier: MPL-2.0

package steamcmd

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	// EnvBinary names the environment variable that overrides the steamcmd
	// executable path.
	EnvBinary = "STEAMCMD"
	// DefaultBinary is the executable name searched in PATH when nothing
	// else is configured.
	DefaultBinary = "steamcmd"
)

// ErrExecutableNotFound is the sentinel error wrapped by ExecutableNotFoundError.
var ErrExecutableNotFound = errors.New("steamcmd executable not found")

// ExecutableNotFoundError is returned when the steamcmd executable cannot be
// resolved to a runnable file.
type ExecutableNotFoundError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ExecutableNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("steamcmd executable %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("steamcmd executable %q not found", e.Name)
}

// Unwrap returns ErrExecutableNotFound for errors.Is() compatibility.
func (e *ExecutableNotFoundError) Unwrap() error { return ErrExecutableNotFound }

// BinaryName picks the steamcmd executable to run. A non-blank EnvBinary
// value wins, then the configured path, then DefaultBinary.
func BinaryName(getenv func(string) string, configured string) string {
	if getenv != nil {
		if v := strings.TrimSpace(getenv(EnvBinary)); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	return DefaultBinary
}

// LookPath resolves name through the PATH search rules of os/exec. Names
// containing a path separator are checked directly.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ExecutableNotFoundError{Name: name, Err: err}
	}
	return path, nil
}
