// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// downloadsPage is where Windows users are sent for an installer.
const downloadsPage = "http://kripken.github.io/emscripten-site/docs/getting_started/downloads.html"

var manualSteps = []string{
	"curl -O https://s3.amazonaws.com/mozilla-games/emscripten/releases/emsdk-portable.tar.gz",
	"tar -xzf emsdk-portable.tar.gz",
	"source emsdk-portable/emsdk_env.sh",
	"emsdk update",
	"emsdk install sdk-incoming-64bit",
	"emsdk activate sdk-incoming-64bit",
}

// GuidanceHost describes the machine guidance is written for.
type GuidanceHost struct {
	GOOS string
	// Exists reports whether a file exists; used to spot package managers.
	Exists func(path string) bool
}

// HostFor returns a GuidanceHost that checks the real filesystem.
func HostFor(goos string) GuidanceHost {
	return GuidanceHost{
		GOOS: goos,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// ManualInstallGuidance returns the plain-text instructions printed when no
// compiler can be found: a package-manager hint where one is recognized, a
// download link on Windows, and emsdk shell steps on Unix-like systems.
func ManualInstallGuidance(host GuidanceHost) string {
	var b strings.Builder
	b.WriteString("error: you don't have Emscripten installed!\n\n")

	switch {
	case host.Exists("/usr/bin/pacman"):
		b.WriteString("You can most likely install it like this:\n")
		b.WriteString("  sudo pacman -S emscripten\n")
	case host.Exists("/usr/bin/apt-get"):
		b.WriteString("You can most likely install it like this:\n")
		b.WriteString("  sudo apt-get install emscripten\n")
	case host.GOOS == "linux":
		b.WriteString("You can most likely find it in your distro's repositories.\n")
	case host.GOOS == "windows":
		fmt.Fprintf(&b, "Download and install emscripten from the official site: %s\n", downloadsPage)
	}

	if host.GOOS != "windows" {
		if host.GOOS == "linux" {
			b.WriteString("If not you can install it manually like this:\n")
		} else {
			b.WriteString("You can install it manually like this:\n")
		}
		for _, step := range manualSteps {
			b.WriteString("  " + step + "\n")
		}
	}

	return b.String()
}

// WriteManualInstallGuidance writes ManualInstallGuidance for goos to w.
func WriteManualInstallGuidance(w io.Writer, goos string) error {
	_, err := io.WriteString(w, ManualInstallGuidance(HostFor(goos)))
	return err
}
