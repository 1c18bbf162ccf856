// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
	// Getenv reads EMPREP_* overrides. When nil the process environment is used.
	Getenv func(string) string
}

// Loaded is a configuration together with the file it came from.
type Loaded struct {
	*Config
	// Path is the loaded file, or "" when only defaults applied.
	Path string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Loaded{Config: cfg, Path: path}, nil
}

// Path returns the file Load would read for opts, or "" when none exists.
func Path(opts LoadOptions) (string, error) {
	path, _, err := resolveConfigPath(opts)
	return path, err
}
