// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"

	flatpakInfoPath = "/.flatpak-info"
)

// detectOnce caches the sandbox type; it cannot change during the process
// lifetime. detectSandboxFrom must not panic: sync.OnceValue would re-panic
// on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in. Flatpak is
// recognized by /.flatpak-info, Snap by SNAP_NAME.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand returns the executable and arguments that run name with args
// on the host from inside the detected sandbox.
func HostCommand(name string, args []string) (string, []string) {
	return HostCommandFor(DetectSandbox(), name, args)
}

// HostCommandFor is HostCommand for an explicit sandbox type. Inside Flatpak
// the command goes through "flatpak-spawn --host". Snap confinement allows
// executing host binaries directly, so Snap and unknown types leave the
// command unchanged.
func HostCommandFor(st SandboxType, name string, args []string) (string, []string) {
	switch st {
	case SandboxFlatpak:
		return "flatpak-spawn", slices.Concat([]string{"--host", name}, args)
	default:
		return name, slices.Clone(args)
	}
}

func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	if err := statFile(flatpakInfoPath); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
