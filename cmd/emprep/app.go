// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/emprep/internal/config"
	"github.com/invowk/emprep/internal/prebuilt"
	"github.com/invowk/emprep/internal/provision"
	"github.com/invowk/emprep/pkg/platform"
	"github.com/invowk/emprep/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference and delegate through its services.
	App struct {
		Config    ConfigProvider
		Toolchain ToolchainFactory
		Fetcher   ArchiveFetcher
		stdout    io.Writer
		stderr    io.Writer
		getenv    func(string) string
		goos      string
		goarch    string

		applySearchPath func(string) error
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Toolchain ToolchainFactory
		Fetcher   ArchiveFetcher
		Stdout    io.Writer
		Stderr    io.Writer
		// Getenv reads PATH and EMPREP_* overrides. Default: os.Getenv.
		Getenv func(string) string
		// GOOS and GOARCH select guidance, compiler names and prebuilt archives.
		GOOS   string
		GOARCH string
		// ApplySearchPath installs the extended PATH in the running process.
		// Default: provision.ApplySearchPath.
		ApplySearchPath func(string) error
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// Toolchain exposes the provisioning steps the CLI drives individually
	// or as one flow.
	Toolchain interface {
		provision.Provisioner
		provision.Resolver
		provision.Activator
	}

	// ToolchainFactory builds a Toolchain for one invocation.
	ToolchainFactory func(cfg *provision.Config) Toolchain

	// ArchiveFetcher downloads verified prebuilt archives.
	ArchiveFetcher interface {
		Download(ctx context.Context, d prebuilt.Descriptor, dir string) (string, error)
	}

	// sdkToolchain is the production Toolchain: the default provisioner and
	// the resolver and activator it composes, exposed as standalone steps.
	sdkToolchain struct {
		provision.Resolver
		provision.Activator
		*provision.SDKProvisioner
	}
)

var _ Toolchain = (*sdkToolchain)(nil)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Toolchain == nil {
		deps.Toolchain = newSDKToolchain
	}
	if deps.Fetcher == nil {
		deps.Fetcher = prebuilt.NewFetcher(prebuilt.WithUserAgent(config.AppName + "/" + Version))
	}
	if deps.GOOS == "" || deps.GOARCH == "" {
		host := platform.Current()
		if deps.GOOS == "" {
			deps.GOOS = host.OS
		}
		if deps.GOARCH == "" {
			deps.GOARCH = host.Arch
		}
	}
	if deps.ApplySearchPath == nil {
		deps.ApplySearchPath = provision.ApplySearchPath
	}

	return &App{
		Config:    deps.Config,
		Toolchain: deps.Toolchain,
		Fetcher:   deps.Fetcher,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		getenv:    deps.Getenv,
		goos:      deps.GOOS,
		goarch:    deps.GOARCH,

		applySearchPath: deps.ApplySearchPath,
	}
}

func newSDKToolchain(cfg *provision.Config) Toolchain {
	p := provision.NewDefaultProvisioner(cfg)
	return &sdkToolchain{
		Resolver:       p.Resolver(),
		Activator:      p.Activator(),
		SDKProvisioner: p,
	}
}

// env reads an environment variable through the injected getenv.
func (a *App) env(key string) string {
	if a.getenv != nil {
		return a.getenv(key)
	}
	return os.Getenv(key)
}

// loadConfig loads configuration and applies command-line overrides, which
// take precedence over both the file and EMPREP_* variables.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Loaded, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		Getenv:         a.getenv,
	})
	if err != nil {
		renderError(a.stderr, err, flags.verbose, config.ColorSchemeAuto)
		return nil, err
	}

	if flags.destination != "" {
		loaded.Destination = types.FilesystemPath(flags.destination)
	}
	if flags.verbose {
		loaded.UI.Verbose = true
	}
	return loaded, nil
}

// newLogger returns the phase logger written to stderr.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// toolchainFor builds the Toolchain configured by cfg. Captured emsdk
// output is echoed to installerOutput.
func (a *App) toolchainFor(cfg *config.Config, installerOutput io.Writer) Toolchain {
	pcfg := provision.DefaultConfig()
	pcfg.Apply(
		provision.WithLogger(a.newLogger(cfg.UI.Verbose)),
		provision.WithGetenv(a.env),
	)
	pcfg.ForceCheckout = cfg.ForceCheckout
	pcfg.InstallerOutput = installerOutput
	return a.Toolchain(pcfg)
}

// destination returns the configured destination as an absolute path.
func destination(cfg *config.Config) (types.FilesystemPath, error) {
	if err := cfg.Destination.Validate(); err != nil {
		return "", err
	}
	return cfg.Destination.Abs()
}
