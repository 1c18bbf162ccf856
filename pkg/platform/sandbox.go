// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-raises a panic on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the type of application sandbox the current process is running in.
// The result is cached after the first call.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand rewrites name and args so the command runs on the host system
// when st is a sandbox. The emsdk installer writes into the destination and
// downloads toolchains, which a Flatpak-confined process cannot do itself.
// Snap offers no way to run an arbitrary host executable, so Snap and
// unsandboxed commands are returned unchanged.
func HostCommand(st SandboxType, dir, name string, args []string) (string, []string) {
	switch st {
	case SandboxFlatpak:
		wrapped := []string{"--host", "--directory=" + dir, name}
		return "flatpak-spawn", append(wrapped, args...)
	case SandboxSnap, SandboxNone:
		return name, args
	default:
		return name, args
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// The /.flatpak-info file is always present inside Flatpak sandboxes.
	if err := statFile("/.flatpak-info"); err == nil {
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
