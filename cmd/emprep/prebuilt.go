// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/internal/prebuilt"
	"github.com/invowk/emprep/pkg/platform"
	"github.com/invowk/emprep/pkg/toolchain"
)

// platformFlags selects the platform prebuilt archives are looked up for.
type platformFlags struct {
	goos   string
	goarch string
}

func (p *platformFlags) register(cmd *cobra.Command, app *App) {
	cmd.Flags().StringVar(&p.goos, "os", app.goos, "target operating system")
	cmd.Flags().StringVar(&p.goarch, "arch", app.goarch, "target architecture (Go or toolchain spelling)")
}

func (p *platformFlags) tag() platform.Tag {
	return platform.Normalize(p.goos, p.goarch)
}

func newPrebuiltCommand(app *App, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prebuilt",
		Short: "Inspect and download prebuilt Emscripten archives",
		Long: `Prebuilt emscripten and binaryen archives (release ` + prebuilt.Version + `) exist for
Linux on x86_64 and x86. Archives are verified by size and SHA-256.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPrebuiltShowCommand(app, flags), newPrebuiltFetchCommand(app, flags))

	return cmd
}

func newPrebuiltShowCommand(app *App, flags *rootFlags) *cobra.Command {
	var target platformFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the prebuilt archives for a platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs := prebuilt.Catalogs()
			found := 0
			for _, name := range slices.Sorted(maps.Keys(catalogs)) {
				d, ok := catalogs[name].Select(target.goos, target.goarch)
				if !ok {
					continue
				}
				found++
				printDescriptor(app.stdout, d)
			}
			if found == 0 {
				err := prebuiltUnavailable(target.tag(), "")
				renderError(app.stderr, err, flags.verbose, config.ColorSchemeAuto)
				return err
			}

			loaded, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if note := releaseNote(loaded.SDKVersion); note != "" {
				fmt.Fprintln(app.stderr, SubtitleStyle.Render(note))
			}
			return nil
		},
	}

	target.register(cmd, app)
	return cmd
}

func newPrebuiltFetchCommand(app *App, flags *rootFlags) *cobra.Command {
	var (
		target platformFlags
		dir    string
	)

	cmd := &cobra.Command{
		Use:       "fetch [emscripten|binaryen]...",
		Short:     "Download and verify prebuilt archives into the cache directory",
		ValidArgs: []string{"emscripten", "binaryen"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context(), flags)
			defer cancel()

			if dir == "" {
				loaded, err := app.loadConfig(ctx, flags)
				if err != nil {
					return err
				}
				dir = loaded.Prebuilt.CacheDir.String()
			}

			catalogs := prebuilt.Catalogs()
			names := args
			if len(names) == 0 {
				names = slices.Sorted(maps.Keys(catalogs))
			}

			for _, name := range names {
				d, ok := catalogs[name].Select(target.goos, target.goarch)
				if !ok {
					err := prebuiltUnavailable(target.tag(), name)
					renderError(app.stderr, err, flags.verbose, config.ColorSchemeAuto)
					return err
				}
				path, err := app.Fetcher.Download(ctx, d, dir)
				if err != nil {
					err = issue.NewErrorContext().
						WithOperation("download prebuilt " + name).
						WithResource(d.URL).
						WithSuggestion("Check your network connection and retry").
						WithSuggestion("Remove partial files from " + dir + " if the problem persists").
						Wrap(err).
						BuildError()
					renderError(app.stderr, err, flags.verbose, config.ColorSchemeAuto)
					return err
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("Verified ")+path)
			}
			return nil
		},
	}

	target.register(cmd, app)
	cmd.Flags().StringVar(&dir, "dir", "", "download directory (default: prebuilt.cache_dir)")

	return cmd
}

func printDescriptor(w io.Writer, d prebuilt.Descriptor) {
	fmt.Fprintln(w, TitleStyle.Render(d.Name))
	printField(w, "  version", d.Version)
	printField(w, "  arch", d.Arch)
	printField(w, "  url", d.URL)
	printField(w, "  sha256", d.Hash)
	printField(w, "  size", strconv.FormatInt(d.Size, 10))
}

// releaseNote explains a mismatch between the prebuilt release and the
// configured SDK version. Aliases such as "latest" are not compared.
func releaseNote(configured toolchain.SDKVersion) string {
	release := toolchain.SDKVersion(prebuilt.Version)
	if !configured.IsSemantic() || configured.Compare(release) == 0 {
		return ""
	}
	relation := "newer"
	if configured.Compare(release) < 0 {
		relation = "older"
	}
	return fmt.Sprintf("note: prebuilt archives are release %s; the configured sdk_version %s is %s", release, configured, relation)
}

func prebuiltUnavailable(tag platform.Tag, name string) error {
	what := "prebuilt packages"
	if name != "" {
		what = "prebuilt " + name
	}
	return issue.NewErrorContext().
		WithOperation("select " + what).
		WithResource(tag.String()).
		WithSuggestion("Prebuilt archives exist for linux/x86_64 and linux/x86 only").
		WithSuggestion("Run 'emprep prepare' to provision from the emsdk repository instead").
		WithIssue(issue.PrebuiltUnavailableId).
		Wrap(fmt.Errorf("no %s for %s", what, tag)).
		BuildError()
}
