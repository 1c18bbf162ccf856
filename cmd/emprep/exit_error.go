// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/internal/provision"
	"github.com/invowk/emprep/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor is the single place errors become process exit codes: a
// missing toolchain is 101, configuration problems are 2, anything else 1.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != types.ExitSuccess {
		return exitErr.Code
	}

	if errors.Is(err, provision.ErrToolchainUnavailable) {
		return types.ExitToolchainUnavailable
	}

	var ae *issue.ActionableError
	if errors.Is(err, config.ErrInvalidConfig) || (errors.As(err, &ae) && ae.IssueId == issue.ConfigLoadFailedId) {
		return types.ExitConfigError
	}

	return types.ExitFailure
}
