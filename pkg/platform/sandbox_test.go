// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"slices"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	missing := func(string) error { return errors.New("not found") }
	present := func(string) error { return nil }

	tests := []struct {
		name string
		env  map[string]string
		stat func(string) error
		want SandboxType
	}{
		{"no indicators", nil, missing, SandboxNone},
		{"snap", map[string]string{"SNAP_NAME": "emprep"}, missing, SandboxSnap},
		{"flatpak", nil, present, SandboxFlatpak},
		{"flatpak wins over snap", map[string]string{"SNAP_NAME": "emprep"}, present, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			getenv := func(k string) string { return tt.env[k] }
			if got := detectSandboxFrom(getenv, tt.stat); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostCommand(t *testing.T) {
	t.Parallel()

	args := []string{"install", "2.0.9"}

	name, got := HostCommand(SandboxNone, "/opt/emsdk", "/opt/emsdk/emsdk", args)
	if name != "/opt/emsdk/emsdk" || !slices.Equal(got, args) {
		t.Errorf("no sandbox: got %q %v", name, got)
	}

	name, got = HostCommand(SandboxFlatpak, "/opt/emsdk", "/opt/emsdk/emsdk", args)
	want := []string{"--host", "--directory=/opt/emsdk", "/opt/emsdk/emsdk", "install", "2.0.9"}
	if name != "flatpak-spawn" || !slices.Equal(got, want) {
		t.Errorf("flatpak: got %q %v, want flatpak-spawn %v", name, got, want)
	}

	name, got = HostCommand(SandboxSnap, "/opt/emsdk", "/opt/emsdk/emsdk", args)
	if name != "/opt/emsdk/emsdk" || !slices.Equal(got, args) {
		t.Errorf("snap: got %q %v, want the command unchanged", name, got)
	}
}
