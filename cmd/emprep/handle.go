// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

const (
	formatTOML = "toml"
	formatJSON = "json"
)

func newHandleCommand(app *App, flags *rootFlags) *cobra.Command {
	var (
		format   string
		binaryen string
	)

	cmd := &cobra.Command{
		Use:   "handle",
		Short: "Print where the provisioned toolchain lives",
		Long: `Print the toolchain handle for the configured destination: the compiler
root, the LLVM backend root and, when --binaryen is given, the binaryen root.
The output is meant for build scripts, in TOML (default) or JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}

			dest, err := destination(loaded.Config)
			if err != nil {
				return err
			}

			h := toolchain.HandleFor(dest)
			if binaryen != "" {
				path, err := types.FilesystemPath(binaryen).Abs()
				if err != nil {
					return err
				}
				h = h.WithBinaryen(path)
			}

			out, err := encodeHandle(h, format)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTOML, "output format: toml or json")
	cmd.Flags().StringVar(&binaryen, "binaryen", "", "binaryen install directory to include")

	return cmd
}

func encodeHandle(h toolchain.Handle, format string) ([]byte, error) {
	switch format {
	case formatTOML:
		return toml.Marshal(h)
	case formatJSON:
		out, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: %s, %s)", format, formatTOML, formatJSON)
	}
}
