// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for emprep.
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath  string
	verbose     bool
	destination string
	timeout     time.Duration
}

// NewRootCommand builds the emprep command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "emprep",
		Short: "Provision a pinned Emscripten SDK",
		Long: TitleStyle.Render("emprep") + SubtitleStyle.Render(" - Provision a pinned Emscripten SDK") + `

emprep clones the emsdk control repository, checks out a pinned revision,
installs and activates an SDK version, and makes the compiler reachable
from the search path.

` + SubtitleStyle.Render("Examples:") + `
  emprep prepare            Run the full provisioning flow
  emprep check              Check whether emcc is reachable
  emprep handle             Print the toolchain locations
  emprep config show        Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/emprep/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.destination, "destination", "d", "", "directory holding the emsdk clone (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "abort after this long (0 means no limit)")

	rootCmd.AddCommand(
		newPrepareCommand(app, flags),
		newResolveCommand(app, flags),
		newActivateCommand(app, flags),
		newCheckCommand(app),
		newHandleCommand(app, flags),
		newPrebuiltCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the code derived from the outcome.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// withTimeout bounds ctx by the --timeout flag.
func withTimeout(ctx context.Context, flags *rootFlags) (context.Context, context.CancelFunc) {
	if flags.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, flags.timeout)
}
