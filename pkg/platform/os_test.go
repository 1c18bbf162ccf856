// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos, arch string
		want       Tag
	}{
		{"linux", "amd64", Tag{Linux, ArchX86_64}},
		{"linux", "x86_64", Tag{Linux, ArchX86_64}},
		{"Linux", "386", Tag{Linux, ArchX86}},
		{"linux", "i686", Tag{Linux, ArchX86}},
		{"darwin", "arm64", Tag{Darwin, ArchARM64}},
		{"windows", "riscv64", Tag{Windows, "riscv64"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.arch, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.goos, tt.arch); got != tt.want {
				t.Errorf("Normalize(%q, %q) = %v, want %v", tt.goos, tt.arch, got, tt.want)
			}
		})
	}
}

func TestCompilerCandidates(t *testing.T) {
	t.Parallel()

	if got := CompilerCandidates(Windows); !slices.Equal(got, []string{"emcc.bat"}) {
		t.Errorf("CompilerCandidates(windows) = %v", got)
	}
	if got := CompilerCandidates(Linux); !slices.Equal(got, []string{"emcc"}) {
		t.Errorf("CompilerCandidates(linux) = %v", got)
	}
}

func TestInstallerName(t *testing.T) {
	t.Parallel()

	if got := InstallerName(Windows); got != "emsdk.bat" {
		t.Errorf("InstallerName(windows) = %q", got)
	}
	if got := InstallerName(Darwin); got != "emsdk" {
		t.Errorf("InstallerName(darwin) = %q", got)
	}
}

func TestTag_String(t *testing.T) {
	t.Parallel()

	tag := Tag{OS: Linux, Arch: ArchX86_64}
	if got := tag.String(); got != "linux/x86_64" {
		t.Errorf("String() = %q", got)
	}
	if !tag.IsUnix() {
		t.Error("linux should be unix")
	}
	if (Tag{OS: Windows}).IsUnix() {
		t.Error("windows should not be unix")
	}
}
