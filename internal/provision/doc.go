// SPDX-License-Identifier: MPL-2.0

// Package provision installs a pinned Emscripten SDK into a destination
// directory that is both a git working tree and the SDK install root.
//
// The pieces can be used on their own or composed by SDKProvisioner:
//
//   - RevisionResolver clones or reuses the emsdk repository and pins its
//     working tree and HEAD to a branch, tag or commit.
//   - ActivationRunner runs "emsdk install <version>" followed by
//     "emsdk activate <version>".
//   - ExtendSearchPath computes a search path with the destination
//     appended; ApplySearchPath writes it to the process.
//   - IsAvailable and LookPath probe a search path for a compiler.
//
// Typical use:
//
//	p := provision.NewDefaultProvisioner(provision.DefaultConfig())
//	result, err := p.Provision(ctx, toolchain.DefaultSource(), dest)
//	// result.SearchPath exposes the SDK; result.Handle locates it
//
// Every failure is an *Error whose Kind names the phase that failed and
// whose message starts with a fixed, human-readable prefix.
package provision
