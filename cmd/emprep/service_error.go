// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/internal/provision"
)

// kindGuidance links each provisioning failure to its catalog entry and the
// short hints printed under the error.
var kindGuidance = map[provision.Kind]struct {
	issueID     issue.Id
	suggestions []string
}{
	provision.KindInvalidSource: {issue.InvalidSourceId, []string{
		"Run 'emprep config show' to see the effective source",
	}},
	provision.KindRepositoryUnavailable: {issue.RepositoryUnavailableId, []string{
		"Check the repository URL and your network connection",
		"Set GITHUB_TOKEN for private HTTPS repositories",
	}},
	provision.KindRevisionNotFound: {issue.RevisionNotFoundId, []string{
		"Check that the configured revision exists upstream",
	}},
	provision.KindCheckoutFailed: {issue.CheckoutFailedId, []string{
		"Commit, stash or discard local edits in the destination",
		"Set force_checkout: true to discard them automatically",
	}},
	provision.KindHeadUpdateFailed: {issue.CheckoutFailedId, []string{
		"Check that the destination's .git directory is writable",
	}},
	provision.KindInstallFailed: {issue.InstallFailedId, []string{
		"Check that sdk_version names a release emsdk knows",
		"Re-run with --verbose to see the installer output",
	}},
	provision.KindActivateFailed: {issue.ActivateFailedId, nil},
	provision.KindPathJoinFailed: {issue.SearchPathFailedId, []string{
		"Choose a destination without path list separators",
	}},
	provision.KindToolchainUnavailable: {issue.ToolchainUnavailableId, nil},
}

// describeError attaches the operation, resource and user-facing hints to a
// failure from a provisioning step. Errors that are already actionable, and
// errors with no known kind, are returned as they are.
func describeError(err error, operation, resource string) error {
	if err == nil {
		return nil
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource)

	if guidance, ok := kindGuidance[provision.KindOf(err)]; ok {
		ctx = ctx.WithIssue(guidance.issueID).WithSuggestions(guidance.suggestions...)
	}
	return ctx.Wrap(err).BuildError()
}

// renderError prints the hints of an actionable error and, in verbose mode,
// the long-form catalog entry.
func renderError(stderr io.Writer, err error, verbose bool, colorScheme config.ColorScheme) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}

	if ae.HasSuggestions() || verbose {
		fmt.Fprintln(stderr, WarningStyle.Render(ae.Format(verbose)))
	}

	if !verbose {
		return
	}
	if entry := ae.Issue(); entry != nil {
		rendered, renderErr := entry.Render(string(colorScheme))
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", ae.IssueId, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
