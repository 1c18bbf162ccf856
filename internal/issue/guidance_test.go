// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func hostWith(goos string, files ...string) GuidanceHost {
	return GuidanceHost{
		GOOS: goos,
		Exists: func(path string) bool {
			for _, f := range files {
				if f == path {
					return true
				}
			}
			return false
		},
	}
}

func TestManualInstallGuidance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		host    GuidanceHost
		want    []string
		notWant []string
	}{
		{
			name:    "arch linux",
			host:    hostWith("linux", "/usr/bin/pacman", "/usr/bin/apt-get"),
			want:    []string{"  sudo pacman -S emscripten\n", "If not you can install it manually like this:\n"},
			notWant: []string{"apt-get"},
		},
		{
			name: "debian",
			host: hostWith("linux", "/usr/bin/apt-get"),
			want: []string{"You can most likely install it like this:\n  sudo apt-get install emscripten\n"},
		},
		{
			name: "other linux",
			host: hostWith("linux"),
			want: []string{"You can most likely find it in your distro's repositories.\n", "  emsdk activate sdk-incoming-64bit\n"},
		},
		{
			name:    "windows",
			host:    hostWith("windows"),
			want:    []string{"Download and install emscripten from the official site: http://kripken.github.io/emscripten-site/docs/getting_started/downloads.html\n"},
			notWant: []string{"manually", "curl"},
		},
		{
			name:    "macos",
			host:    hostWith("darwin"),
			want:    []string{"You can install it manually like this:\n  curl -O https://s3.amazonaws.com/mozilla-games/emscripten/releases/emsdk-portable.tar.gz\n"},
			notWant: []string{"If not", "repositories"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ManualInstallGuidance(tt.host)
			if !strings.HasPrefix(got, "error: you don't have Emscripten installed!\n\n") {
				t.Errorf("guidance should start with the error line:\n%s", got)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("guidance missing %q:\n%s", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("guidance should not contain %q:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestManualInstallGuidance_LinuxFull(t *testing.T) {
	t.Parallel()

	want := `error: you don't have Emscripten installed!

You can most likely find it in your distro's repositories.
If not you can install it manually like this:
  curl -O https://s3.amazonaws.com/mozilla-games/emscripten/releases/emsdk-portable.tar.gz
  tar -xzf emsdk-portable.tar.gz
  source emsdk-portable/emsdk_env.sh
  emsdk update
  emsdk install sdk-incoming-64bit
  emsdk activate sdk-incoming-64bit
`
	if got := ManualInstallGuidance(hostWith("linux")); got != want {
		t.Errorf("ManualInstallGuidance() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteManualInstallGuidance(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteManualInstallGuidance(&buf, runtime.GOOS); err != nil {
		t.Fatalf("WriteManualInstallGuidance() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "error: you don't have Emscripten installed!") {
		t.Errorf("unexpected guidance: %q", buf.String())
	}
}
