// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type (
	// Config holds the knobs of an SDKProvisioner.
	Config struct {
		// ForceCheckout discards local edits to tracked files in the destination.
		ForceCheckout bool

		// InstallerOutput receives the captured stdout of emsdk.
		// Default: os.Stdout
		InstallerOutput io.Writer

		// Logger reports provisioning phases. Default: discards everything.
		Logger *log.Logger

		// Getenv reads the search path the result is computed from.
		// Default: os.Getenv
		Getenv func(string) string
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		InstallerOutput: os.Stdout,
		Logger:          log.New(io.Discard),
		Getenv:          os.Getenv,
	}
}

// WithLogger returns an Option that sets Logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithGetenv returns an Option that sets Getenv.
// This keeps tests independent of the process environment.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Config) {
		c.Getenv = getenv
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// withDefaults fills nil fields so a partially built Config is usable.
func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.InstallerOutput == nil {
		out.InstallerOutput = def.InstallerOutput
	}
	if out.Logger == nil {
		out.Logger = def.Logger
	}
	if out.Getenv == nil {
		out.Getenv = def.Getenv
	}
	return &out
}
