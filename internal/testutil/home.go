// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir and returns a function restoring the old value.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if runtime.GOOS == "windows" {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}

// IsolateUserDirs moves the per-user config and cache directories below
// root for the rest of the test and returns them. Restoration is registered
// with t.Cleanup, so callers must not run in parallel.
func IsolateUserDirs(t testing.TB, root string) (configDir, cacheDir string) {
	t.Helper()

	t.Cleanup(SetHomeDir(t, root))

	switch runtime.GOOS {
	case "windows":
		configDir = filepath.Join(root, "AppData", "Roaming")
		cacheDir = filepath.Join(root, "AppData", "Local")
		t.Cleanup(MustSetenv(t, "APPDATA", configDir))
		t.Cleanup(MustSetenv(t, "LOCALAPPDATA", cacheDir))
	case "darwin", "ios":
		configDir = filepath.Join(root, "Library", "Application Support")
		cacheDir = filepath.Join(root, "Library", "Caches")
	default:
		configDir = filepath.Join(root, ".config")
		cacheDir = filepath.Join(root, ".cache")
		t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", configDir))
		t.Cleanup(MustSetenv(t, "XDG_CACHE_HOME", cacheDir))
	}
	return configDir, cacheDir
}
