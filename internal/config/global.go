// SPDX-License-Identifier: MPL-2.0

package config

// Test overrides for the per-user directories. os.UserHomeDir and
// os.UserCacheDir don't reliably respect HOME on all platforms (e.g. macOS in CI).
var (
	configDirOverride string
	cacheDirOverride  string
)

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	cacheDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetCacheDirOverride sets a custom cache directory path, which moves the
// default destination and prebuilt cache with it.
func SetCacheDirOverride(dir string) {
	cacheDirOverride = dir
}
