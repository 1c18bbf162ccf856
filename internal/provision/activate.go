// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/invowk/emprep/pkg/platform"
	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

const (
	installStep  = "install"
	activateStep = "activate"
)

type (
	// Command describes one installer invocation.
	Command struct {
		Path string
		Args []string
		Dir  string
	}

	// CommandOutput is what a finished command produced.
	CommandOutput struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode types.ExitCode
	}

	// CommandRunner runs a command to completion and captures its output.
	// A non-nil error means the command could not be started or waited for;
	// a non-zero exit status is reported through CommandOutput.ExitCode.
	CommandRunner interface {
		Run(ctx context.Context, cmd Command) (*CommandOutput, error)
	}

	// ActivationRunner drives "emsdk install" and "emsdk activate".
	ActivationRunner struct {
		runner CommandRunner
		goos   string
		stdout io.Writer
	}

	// ActivationOption configures an ActivationRunner.
	ActivationOption func(*ActivationRunner)

	// execRunner runs commands with os/exec.
	execRunner struct {
		sandbox platform.SandboxType
	}
)

// WithCommandRunner replaces the process runner.
func WithCommandRunner(r CommandRunner) ActivationOption {
	return func(a *ActivationRunner) {
		a.runner = r
	}
}

// WithInstallerOutput sets where captured installer stdout is echoed.
func WithInstallerOutput(w io.Writer) ActivationOption {
	return func(a *ActivationRunner) {
		a.stdout = w
	}
}

// WithTargetOS overrides the OS used to pick the installer script name.
func WithTargetOS(goos string) ActivationOption {
	return func(a *ActivationRunner) {
		a.goos = goos
	}
}

// NewActivationRunner creates a runner that executes the installer on the
// host, escaping application sandboxes when necessary.
func NewActivationRunner(opts ...ActivationOption) *ActivationRunner {
	a := &ActivationRunner{
		runner: &execRunner{sandbox: platform.DetectSandbox()},
		goos:   runtime.GOOS,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// InstallerPath returns the emsdk self-installer inside destination.
func (a *ActivationRunner) InstallerPath(destination types.FilesystemPath) types.FilesystemPath {
	return destination.Join(platform.InstallerName(a.goos))
}

// Activate installs and then activates source.Version. The activate step
// is skipped when install fails. Captured stdout of each step is echoed
// whatever the outcome. Re-running for an installed version is assumed to
// be safe; that guarantee belongs to emsdk.
func (a *ActivationRunner) Activate(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) error {
	installer := string(a.InstallerPath(destination))

	if err := a.step(ctx, installer, installStep, source.Version, destination, KindInstallFailed); err != nil {
		return err
	}
	return a.step(ctx, installer, activateStep, source.Version, destination, KindActivateFailed)
}

func (a *ActivationRunner) step(ctx context.Context, installer, verb string, version toolchain.SDKVersion, destination types.FilesystemPath, kind Kind) error {
	out, err := a.runner.Run(ctx, Command{
		Path: installer,
		Args: []string{verb, string(version)},
		Dir:  string(destination),
	})
	if err != nil {
		return newError(kind, err)
	}

	if len(out.Stdout) > 0 {
		fmt.Fprintln(a.stdout, trimOutput(out.Stdout))
	}

	if !out.ExitCode.IsSuccess() {
		return newErrorDetail(kind, string(out.Stderr), fmt.Errorf("emsdk %s %s: exit status %d", verb, version, out.ExitCode))
	}
	return nil
}

// Run implements CommandRunner.
func (r *execRunner) Run(ctx context.Context, c Command) (*CommandOutput, error) {
	name, args := platform.HostCommand(r.sandbox, c.Dir, c.Path, c.Args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &CommandOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		out.ExitCode = types.ExitCode(exitErr.ExitCode())
		return out, nil
	}
	return nil, fmt.Errorf("run %s: %w", c.Path, err)
}
