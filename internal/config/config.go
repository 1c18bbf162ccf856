// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/emprep/internal/issue"
	"github.com/invowk/emprep/pkg/platform"
	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "emprep"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables that override config keys,
	// e.g. EMPREP_DESTINATION or EMPREP_UI_VERBOSE.
	EnvPrefix = "EMPREP"
)

// ErrConfigExists is returned by CreateDefaultConfig when the file is
// already present and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the emprep configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// CacheDir returns the per-user directory emprep keeps its data in. The
// default SDK destination and prebuilt cache live below it.
func CacheDir() (string, error) {
	if cacheDirOverride != "" {
		return cacheDirOverride, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultConfig returns the configuration used when no file or environment
// override is present. Paths fall back to relative ones when the user cache
// directory is unknown.
func DefaultConfig() *Config {
	base, err := CacheDir()
	if err != nil {
		base = "." + AppName
	}

	source := toolchain.DefaultSource()
	return &Config{
		RepositoryURL: source.RepositoryURL,
		Revision:      source.Revision,
		SDKVersion:    source.Version,
		Destination:   types.FilesystemPath(filepath.Join(base, "emsdk")),
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Prebuilt: PrebuiltConfig{
			CacheDir: CacheDirPath(filepath.Join(base, "prebuilt")),
		},
	}
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the path of the file that was loaded, or
// "" when only defaults and environment overrides apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper(opts.Getenv)

	resolvedPath, explicit, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", loadError(err, "")
	}

	if resolvedPath != "" {
		if explicit && !fileExists(resolvedPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'emprep config init' to create a configuration file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", resolvedPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(err, resolvedPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(fmt.Errorf("failed to parse config: %w", err), resolvedPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check the values set in the configuration file").
			WithSuggestion("Check EMPREP_* environment variables for stray overrides").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance carrying every default and reading
// EMPREP_* overrides through getenv.
func newViper(getenv func(string) string) *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("repository_url", string(defaults.RepositoryURL))
	v.SetDefault("revision", string(defaults.Revision))
	v.SetDefault("sdk_version", string(defaults.SDKVersion))
	v.SetDefault("destination", string(defaults.Destination))
	v.SetDefault("force_checkout", defaults.ForceCheckout)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("prebuilt.cache_dir", string(defaults.Prebuilt.CacheDir))

	if getenv == nil {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		return v
	}

	// Explicit environments are applied by hand so tests stay hermetic.
	for _, key := range v.AllKeys() {
		name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if value := getenv(name); value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// resolveConfigPath picks the file to load: the explicit path exclusively
// when set, then config.cue in the config directory, then ./config.cue.
// explicit reports whether the path came from LoadOptions.ConfigFilePath.
func resolveConfigPath(opts LoadOptions) (path string, explicit bool, err error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, true, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}

	fileName := ConfigFileName + "." + ConfigFileExt
	if cuePath := filepath.Join(cfgDir, fileName); fileExists(cuePath) {
		return cuePath, false, nil
	}
	if fileExists(fileName) {
		return fileName, false, nil
	}
	return "", false, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

func loadError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("Run 'emprep config show' to see the effective configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	// Merging keeps defaults for omitted keys and lets env overrides win.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration into dir (the
// platform config directory when empty) and returns the file path. An
// existing file is kept and reported with ErrConfigExists unless force is set.
func CreateDefaultConfig(dir string, force bool) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if !force && fileExists(cfgPath) {
		return cfgPath, fmt.Errorf("%w: %s", ErrConfigExists, cfgPath)
	}

	if err := Save(DefaultConfig(), cfgPath); err != nil {
		return "", err
	}
	return cfgPath, nil
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// emprep configuration file\n")
	sb.WriteString("// Every field is optional. EMPREP_<FIELD> environment variables override it.\n\n")

	fmt.Fprintf(&sb, "repository_url: %q\n", cfg.RepositoryURL)
	fmt.Fprintf(&sb, "revision:       %q\n", cfg.Revision)
	fmt.Fprintf(&sb, "sdk_version:    %q\n", cfg.SDKVersion)
	fmt.Fprintf(&sb, "destination:    %q\n", cfg.Destination)
	fmt.Fprintf(&sb, "force_checkout: %v\n", cfg.ForceCheckout)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	if cfg.Prebuilt.CacheDir != "" {
		sb.WriteString("\nprebuilt: {\n")
		fmt.Fprintf(&sb, "\tcache_dir: %q\n", cfg.Prebuilt.CacheDir)
		sb.WriteString("}\n")
	}

	return sb.String()
}
