// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/emprep/internal/testutil"
	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

// fakeRunner records commands and answers with scripted outputs keyed by
// the installer verb ("install" or "activate").
type fakeRunner struct {
	calls   []Command
	outputs map[string]*CommandOutput
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (*CommandOutput, error) {
	f.calls = append(f.calls, cmd)
	verb := cmd.Args[0]
	if err := f.errs[verb]; err != nil {
		return nil, err
	}
	if out, ok := f.outputs[verb]; ok {
		return out, nil
	}
	return &CommandOutput{}, nil
}

func (f *fakeRunner) verbs() []string {
	verbs := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		verbs = append(verbs, c.Args[0])
	}
	return verbs
}

func TestActivationRunner_Success(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outputs: map[string]*CommandOutput{
		installStep:  {Stdout: []byte("Installing SDK 'sdk-2.0.9-64bit'..\n")},
		activateStep: {Stdout: []byte("The Emscripten SDK is now active.\n")},
	}}
	var out bytes.Buffer
	a := NewActivationRunner(WithCommandRunner(runner), WithInstallerOutput(&out), WithTargetOS("linux"))

	dest := types.FilesystemPath(filepath.Join(t.TempDir(), "emsdk"))
	if err := a.Activate(context.Background(), toolchain.DefaultSource(), dest); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	if got, want := runner.verbs(), []string{"install", "activate"}; !slices.Equal(got, want) {
		t.Fatalf("verbs = %v, want %v", got, want)
	}
	for _, c := range runner.calls {
		if c.Path != filepath.Join(string(dest), "emsdk") {
			t.Errorf("Path = %q, want the emsdk script in the destination", c.Path)
		}
		if c.Dir != string(dest) {
			t.Errorf("Dir = %q, want %q", c.Dir, dest)
		}
		if c.Args[1] != "2.0.9" {
			t.Errorf("version arg = %q, want 2.0.9", c.Args[1])
		}
	}

	want := "Installing SDK 'sdk-2.0.9-64bit'..\nThe Emscripten SDK is now active.\n"
	if out.String() != want {
		t.Errorf("echoed output = %q, want %q", out.String(), want)
	}
}

func TestActivationRunner_InstallFailureSkipsActivate(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outputs: map[string]*CommandOutput{
		installStep: {
			Stdout:   []byte("fetching\n"),
			Stderr:   []byte("error: unknown version"),
			ExitCode: types.ExitFailure,
		},
	}}
	var out bytes.Buffer
	a := NewActivationRunner(WithCommandRunner(runner), WithInstallerOutput(&out))

	err := a.Activate(context.Background(), toolchain.DefaultSource(), types.FilesystemPath(t.TempDir()))
	if err == nil {
		t.Fatal("Activate() error = nil, want install failure")
	}
	if want := "Failed to install EMSDK : error: unknown version"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInstallFailed) {
		t.Errorf("errors.Is(err, ErrInstallFailed) = false for %v", err)
	}
	if got := runner.verbs(); !slices.Equal(got, []string{"install"}) {
		t.Errorf("verbs = %v, activate must not run after a failed install", got)
	}
	if !strings.Contains(out.String(), "fetching") {
		t.Errorf("stdout of the failed step was not echoed: %q", out.String())
	}
}

func TestActivationRunner_ActivateFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outputs: map[string]*CommandOutput{
		activateStep: {Stderr: []byte("no such tool"), ExitCode: 2},
	}}
	a := NewActivationRunner(WithCommandRunner(runner), WithInstallerOutput(&bytes.Buffer{}))

	err := a.Activate(context.Background(), toolchain.DefaultSource(), types.FilesystemPath(t.TempDir()))
	if want := "Failed to activate Emscripten SDK : no such tool"; err == nil || err.Error() != want {
		t.Fatalf("Activate() error = %v, want %q", err, want)
	}
	if KindOf(err) != KindActivateFailed {
		t.Errorf("KindOf() = %s, want %s", KindOf(err), KindActivateFailed)
	}
}

func TestActivationRunner_StartFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{errs: map[string]error{installStep: errors.New("exec: no such file")}}
	a := NewActivationRunner(WithCommandRunner(runner), WithInstallerOutput(&bytes.Buffer{}))

	err := a.Activate(context.Background(), toolchain.DefaultSource(), types.FilesystemPath(t.TempDir()))
	if want := "Failed to install EMSDK : exec: no such file"; err == nil || err.Error() != want {
		t.Fatalf("Activate() error = %v, want %q", err, want)
	}
	if len(runner.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(runner.calls))
	}
}

func TestActivationRunner_InstallerPath(t *testing.T) {
	t.Parallel()

	dest := types.FilesystemPath(filepath.Join("sdk", "emsdk"))
	tests := []struct {
		goos string
		want string
	}{
		{"windows", "emsdk.bat"},
		{"linux", "emsdk"},
		{"darwin", "emsdk"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			a := NewActivationRunner(WithTargetOS(tt.goos))
			if got, want := a.InstallerPath(dest), dest.Join(tt.want); got != want {
				t.Errorf("InstallerPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestExecRunner_CapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell script")
	}
	t.Parallel()

	dir := t.TempDir()
	script := testutil.WriteExecutable(t, dir, "emsdk", "#!/bin/sh\necho \"out $1 $2\"\necho \"err $1\" >&2\n[ \"$1\" = install ]\n")

	r := &execRunner{}
	out, err := r.Run(context.Background(), Command{Path: script, Args: []string{"install", "2.0.9"}, Dir: dir})
	if err != nil {
		t.Fatalf("Run(install) error = %v", err)
	}
	if got := string(out.Stdout); got != "out install 2.0.9\n" {
		t.Errorf("Stdout = %q", got)
	}
	if got := string(out.Stderr); got != "err install\n" {
		t.Errorf("Stderr = %q", got)
	}
	if !out.ExitCode.IsSuccess() {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}

	out, err = r.Run(context.Background(), Command{Path: script, Args: []string{"activate", "2.0.9"}, Dir: dir})
	if err != nil {
		t.Fatalf("Run(activate) error = %v", err)
	}
	if out.ExitCode != types.ExitFailure {
		t.Errorf("ExitCode = %d, want 1", out.ExitCode)
	}
}

func TestExecRunner_MissingInstaller(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := (&execRunner{}).Run(context.Background(), Command{Path: filepath.Join(dir, "emsdk"), Args: []string{"install"}, Dir: dir})
	if err == nil {
		t.Fatal("Run() error = nil for a missing installer")
	}
}
