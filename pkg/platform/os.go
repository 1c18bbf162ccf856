// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Architecture tags in the spelling used by toolchain release archives.
const (
	ArchX86_64 = "x86_64"
	ArchX86    = "x86"
	ArchARM64  = "aarch64"
)

// Tag identifies an operating system and CPU architecture pair.
type Tag struct {
	OS   string
	Arch string
}

// Current returns the normalized tag of the running process.
func Current() Tag {
	return Normalize(runtime.GOOS, runtime.GOARCH)
}

// Normalize maps Go and toolchain spellings onto one canonical tag so that
// "amd64" and "x86_64" (or "386", "i686" and "x86") compare equal.
func Normalize(goos, arch string) Tag {
	return Tag{OS: strings.ToLower(goos), Arch: NormalizeArch(arch)}
}

// NormalizeArch returns the canonical architecture spelling.
func NormalizeArch(arch string) string {
	switch strings.ToLower(arch) {
	case "amd64", "x86_64", "x64":
		return ArchX86_64
	case "386", "i386", "i686", "x86":
		return ArchX86
	case "arm64", "aarch64":
		return ArchARM64
	default:
		return strings.ToLower(arch)
	}
}

// String returns "os/arch".
func (t Tag) String() string { return t.OS + "/" + t.Arch }

// IsUnix reports whether the OS uses POSIX shell conventions.
func (t Tag) IsUnix() bool { return t.OS != Windows }

// CompilerCandidates returns the executable names that identify a usable
// Emscripten compiler driver on the given OS.
func CompilerCandidates(goos string) []string {
	if goos == Windows {
		return []string{"emcc.bat"}
	}
	return []string{"emcc"}
}

// InstallerName returns the file name of the emsdk self-installer on the given OS.
func InstallerName(goos string) string {
	if goos == Windows {
		return "emsdk.bat"
	}
	return "emsdk"
}
