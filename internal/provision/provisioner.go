// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

// Compile-time interface checks
var (
	_ Provisioner = (*SDKProvisioner)(nil)
	_ Resolver    = (*RevisionResolver)(nil)
	_ Activator   = (*ActivationRunner)(nil)
)

type (
	// Provisioner makes a pinned Emscripten SDK usable from a destination.
	Provisioner interface {
		// Provision clones or reuses destination, pins it to source.Revision,
		// installs and activates source.Version, and computes the search
		// path that exposes it. The live process environment is not changed.
		Provision(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) (*Result, error)
	}

	// Resolver pins a destination's working tree to a revision.
	Resolver interface {
		Resolve(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) (*ResolvedRevision, error)
	}

	// Activator runs the SDK's own install and activate steps.
	Activator interface {
		Activate(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) error
	}

	// Result contains the output of a provisioning operation.
	Result struct {
		// Handle locates the installed toolchain.
		Handle toolchain.Handle

		// SearchPath is the current search path extended with the destination.
		// Callers apply it with ApplySearchPath.
		SearchPath string

		// Revision describes the checked-out commit.
		Revision *ResolvedRevision
	}

	// SDKProvisioner is the Provisioner backed by go-git and the emsdk script.
	SDKProvisioner struct {
		resolver  Resolver
		activator Activator
		config    *Config
	}
)

// NewSDKProvisioner creates a provisioner from explicit collaborators.
func NewSDKProvisioner(resolver Resolver, activator Activator, cfg *Config) *SDKProvisioner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SDKProvisioner{
		resolver:  resolver,
		activator: activator,
		config:    cfg.withDefaults(),
	}
}

// NewDefaultProvisioner wires the go-git resolver and the host emsdk runner.
func NewDefaultProvisioner(cfg *Config) *SDKProvisioner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.withDefaults()
	return NewSDKProvisioner(
		NewRevisionResolver(WithForceCheckout(cfg.ForceCheckout)),
		NewActivationRunner(WithInstallerOutput(cfg.InstallerOutput)),
		cfg,
	)
}

// Resolver returns the resolver Provision pins revisions with.
func (p *SDKProvisioner) Resolver() Resolver {
	return p.resolver
}

// Activator returns the activator Provision installs the SDK with.
func (p *SDKProvisioner) Activator() Activator {
	return p.activator
}

// Config returns the provisioner's configuration.
func (p *SDKProvisioner) Config() *Config {
	return p.config
}

// Provision implements Provisioner. Concurrent calls for the same
// destination are serialized by a lock file next to it on Linux.
func (p *SDKProvisioner) Provision(ctx context.Context, source toolchain.Source, destination types.FilesystemPath) (*Result, error) {
	logger := p.config.Logger

	if err := source.Validate(); err != nil {
		return nil, newError(KindInvalidSource, err)
	}
	if err := destination.Validate(); err != nil {
		return nil, newError(KindInvalidSource, err)
	}
	dest, err := destination.Abs()
	if err != nil {
		return nil, newError(KindInvalidSource, err)
	}

	lock, err := acquireDestinationLock(ctx, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to lock destination: %w", err)
	}
	defer lock.Release()

	start := time.Now()
	logger.Info("resolving revision", "repository", source.RepositoryURL, "revision", source.Revision, "destination", dest)
	rev, err := p.resolver.Resolve(ctx, source, dest)
	if err != nil {
		return nil, err
	}
	logger.Debug("revision resolved", "commit", rev.Commit, "branch", rev.Branch, "cloned", rev.Cloned)

	logger.Info("activating SDK", "version", source.Version)
	if err := p.activator.Activate(ctx, source, dest); err != nil {
		return nil, err
	}

	searchPath, err := ExtendSearchPath(p.config.Getenv(SearchPathVar), string(dest))
	if err != nil {
		return nil, err
	}
	logger.Debug("search path extended", "entry", dest)
	logger.Info("SDK ready", "version", source.Version, "elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Handle:     toolchain.HandleFor(dest),
		SearchPath: searchPath,
		Revision:   rev,
	}, nil
}
