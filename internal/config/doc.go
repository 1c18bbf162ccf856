// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the --config file when given, otherwise from
// config.cue in the platform config directory ($XDG_CONFIG_HOME/emprep on Linux,
// ~/Library/Application Support/emprep on macOS, %APPDATA%\emprep on Windows),
// otherwise from ./config.cue. Files are validated against the embedded
// config_schema.cue. EMPREP_* environment variables override file values.
package config
