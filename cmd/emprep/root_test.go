// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/internal/provision"
	"github.com/invowk/emprep/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})

	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-02"
	if got, want := getVersionString(), "1.2.3 (commit: abc123, built: 2026-01-02)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got := getVersionString(); got == "" {
		t.Error("getVersionString() should never be empty")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	configErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("syntax error")).
		BuildError()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"explicit exit code", &ExitError{Code: types.ExitConfigError}, types.ExitConfigError},
		{"zero exit code falls through", &ExitError{Code: types.ExitSuccess, Err: errors.New("x")}, types.ExitFailure},
		{"toolchain unavailable", &provision.Error{Kind: provision.KindToolchainUnavailable}, types.ExitToolchainUnavailable},
		{"wrapped toolchain unavailable", fmt.Errorf("check: %w", provision.ErrToolchainUnavailable), types.ExitToolchainUnavailable},
		{"install failure", &provision.Error{Kind: provision.KindInstallFailed}, types.ExitFailure},
		{"invalid config", fmt.Errorf("load: %w", config.ErrInvalidConfig), types.ExitConfigError},
		{"config load issue", configErr, types.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewSDKToolchain(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg := provision.DefaultConfig()
	cfg.ForceCheckout = true
	cfg.InstallerOutput = &out

	tc, ok := newSDKToolchain(cfg).(*sdkToolchain)
	if !ok {
		t.Fatalf("newSDKToolchain() returned %T", newSDKToolchain(cfg))
	}
	if tc.Resolver != tc.SDKProvisioner.Resolver() || tc.Activator != tc.SDKProvisioner.Activator() {
		t.Error("standalone steps should be the ones the provisioner composes")
	}
	if _, ok := tc.Resolver.(*provision.RevisionResolver); !ok {
		t.Errorf("Resolver = %T, want *provision.RevisionResolver", tc.Resolver)
	}
	if _, ok := tc.Activator.(*provision.ActivationRunner); !ok {
		t.Errorf("Activator = %T, want *provision.ActivationRunner", tc.Activator)
	}
	if got := tc.Config(); !got.ForceCheckout || got.InstallerOutput != &out {
		t.Errorf("Config() = %+v, want force checkout and the given installer output", got)
	}
}
