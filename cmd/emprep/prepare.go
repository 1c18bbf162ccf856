// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/internal/provision"
	"github.com/invowk/emprep/pkg/platform"
	"github.com/invowk/emprep/pkg/types"
)

const prepareOperation = "prepare Emscripten SDK"

func newPrepareCommand(app *App, flags *rootFlags) *cobra.Command {
	var printPath bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Clone, pin, install and activate the Emscripten SDK",
		Long: `Run the full provisioning flow.

The emsdk repository is cloned into the destination (or reused), checked out
at the configured revision, and the configured SDK version is installed and
activated. The destination is then appended to PATH and emcc must be found
there; otherwise installation guidance is printed and emprep exits with 101.

Use --print-path to emit the extended PATH for your shell:
  export PATH="$(emprep prepare --print-path)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd.Context(), flags, printPath)
		},
	}

	cmd.Flags().BoolVar(&printPath, "print-path", false, "print only the extended PATH value on stdout")

	return cmd
}

func (a *App) prepare(ctx context.Context, flags *rootFlags, printPath bool) error {
	loaded, err := a.loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	ctx, cancel := withTimeout(ctx, flags)
	defer cancel()

	// Keep stdout clean for the PATH value when it is requested.
	report := a.stdout
	if printPath {
		report = a.stderr
	}

	dest, err := destination(cfg)
	if err != nil {
		return describeError(err, prepareOperation, string(cfg.Destination))
	}

	res, err := a.toolchainFor(cfg, report).Provision(ctx, cfg.Source(), dest)
	if err != nil {
		err = describeError(err, prepareOperation, string(dest))
		renderError(a.stderr, err, cfg.UI.Verbose, cfg.UI.ColorScheme)
		return err
	}

	if err := a.applySearchPath(res.SearchPath); err != nil {
		return err
	}

	compiler, err := a.requireCompiler(res.SearchPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(report, SuccessStyle.Render(fmt.Sprintf("Emscripten SDK %s is ready", cfg.SDKVersion)))
	printRevision(report, res.Revision)
	printField(report, "destination", string(dest))
	printField(report, "compiler", compiler)

	if printPath {
		fmt.Fprintln(a.stdout, res.SearchPath)
	}
	return nil
}

// requireCompiler probes searchPath for the compiler driver. When none is
// found the manual installation guidance goes to stderr and the returned
// error carries exit code 101.
func (a *App) requireCompiler(searchPath string) (string, error) {
	compiler, err := provision.RequireCompiler(platform.CompilerCandidates(a.goos), searchPath)
	if err != nil {
		if writeErr := issue.WriteManualInstallGuidance(a.stderr, a.goos); writeErr != nil {
			return "", writeErr
		}
		return "", &ExitError{Code: types.ExitToolchainUnavailable, Err: err}
	}
	return compiler, nil
}

func printRevision(w io.Writer, rev *provision.ResolvedRevision) {
	if rev == nil {
		return
	}
	printField(w, "commit", rev.Commit.String())
	if rev.Branch != "" {
		printField(w, "branch", rev.Branch.Short())
	} else {
		printField(w, "branch", SubtitleStyle.Render("(detached)"))
	}
}

func newResolveCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Clone or reuse the emsdk repository and check out the pinned revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "resolve emsdk revision"
			return app.withToolchain(cmd.Context(), flags, operation, func(ctx context.Context, cfg *config.Config, tc Toolchain, dest types.FilesystemPath) error {
				rev, err := tc.Resolve(ctx, cfg.Source(), dest)
				if err != nil {
					return err
				}
				if rev.Cloned {
					fmt.Fprintln(app.stdout, SuccessStyle.Render("Cloned "+cfg.RepositoryURL.String()))
				}
				printRevision(app.stdout, rev)
				return nil
			})
		},
	}
}

func newActivateCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Install and activate the configured SDK version in the destination",
		Long: `Run "emsdk install <version>" and "emsdk activate <version>" in an
already resolved destination. The activate step is skipped when install fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "activate Emscripten SDK"
			return app.withToolchain(cmd.Context(), flags, operation, func(ctx context.Context, cfg *config.Config, tc Toolchain, dest types.FilesystemPath) error {
				if err := tc.Activate(ctx, cfg.Source(), dest); err != nil {
					return err
				}
				searchPath, err := provision.ExtendSearchPath(app.env(provision.SearchPathVar), string(dest))
				if err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render(fmt.Sprintf("Activated Emscripten SDK %s", cfg.SDKVersion)))
				printField(app.stdout, provision.SearchPathVar, searchPath)
				return nil
			})
		},
	}
}

// withToolchain loads configuration, resolves the destination and runs fn
// with a configured Toolchain, describing and rendering any failure.
func (a *App) withToolchain(ctx context.Context, flags *rootFlags, operation string, fn func(context.Context, *config.Config, Toolchain, types.FilesystemPath) error) error {
	loaded, err := a.loadConfig(ctx, flags)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	ctx, cancel := withTimeout(ctx, flags)
	defer cancel()

	dest, err := destination(cfg)
	if err != nil {
		return describeError(err, operation, string(cfg.Destination))
	}

	if err := fn(ctx, cfg, a.toolchainFor(cfg, a.stdout), dest); err != nil {
		err = describeError(err, operation, string(dest))
		renderError(a.stderr, err, cfg.UI.Verbose, cfg.UI.ColorScheme)
		return err
	}
	return nil
}

func newCheckCommand(app *App) *cobra.Command {
	var searchPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the Emscripten compiler is reachable",
		Long: `Probe the search path for emcc (emcc.bat on Windows) without provisioning
anything. Exits with 101 and prints installation guidance when it is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("search-path") {
				searchPath = app.env(provision.SearchPathVar)
			}
			compiler, err := app.requireCompiler(searchPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Emscripten is available"))
			printField(app.stdout, "compiler", compiler)
			return nil
		},
	}

	cmd.Flags().StringVar(&searchPath, "search-path", "", "search path to probe instead of $PATH")

	return cmd
}
