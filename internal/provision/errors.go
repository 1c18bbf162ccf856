// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"strings"
)

// Kind classifies a provisioning failure by the phase that produced it.
type Kind int

const (
	// KindUnknown is never produced by this package.
	KindUnknown Kind = iota
	// KindInvalidSource means the toolchain source failed validation.
	KindInvalidSource
	// KindRepositoryUnavailable means the repository could not be opened or cloned.
	KindRepositoryUnavailable
	// KindRevisionNotFound means no object matches the pinned revision.
	KindRevisionNotFound
	// KindCheckoutFailed means the working tree could not be updated.
	KindCheckoutFailed
	// KindHeadUpdateFailed means HEAD (or a branch created for it) could not be written.
	KindHeadUpdateFailed
	// KindInstallFailed means "emsdk install" failed.
	KindInstallFailed
	// KindActivateFailed means "emsdk activate" failed.
	KindActivateFailed
	// KindPathJoinFailed means the search path list cannot represent the new entry.
	KindPathJoinFailed
	// KindToolchainUnavailable means no compiler executable is reachable.
	KindToolchainUnavailable
)

var (
	// ErrInvalidSource matches errors of KindInvalidSource.
	ErrInvalidSource = errors.New("invalid toolchain source")
	// ErrRepositoryUnavailable matches errors of KindRepositoryUnavailable.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrRevisionNotFound matches errors of KindRevisionNotFound.
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrCheckoutFailed matches errors of KindCheckoutFailed.
	ErrCheckoutFailed = errors.New("checkout failed")
	// ErrHeadUpdateFailed matches errors of KindHeadUpdateFailed.
	ErrHeadUpdateFailed = errors.New("head update failed")
	// ErrInstallFailed matches errors of KindInstallFailed.
	ErrInstallFailed = errors.New("install failed")
	// ErrActivateFailed matches errors of KindActivateFailed.
	ErrActivateFailed = errors.New("activate failed")
	// ErrPathJoinFailed matches errors of KindPathJoinFailed.
	ErrPathJoinFailed = errors.New("path join failed")
	// ErrToolchainUnavailable matches errors of KindToolchainUnavailable.
	ErrToolchainUnavailable = errors.New("toolchain unavailable")
)

// kindInfo holds the fixed message prefix and sentinel of each kind.
// The install and activate prefixes are matched verbatim by wrapper scripts.
var kindInfo = map[Kind]struct {
	name     string
	prefix   string
	sentinel error
}{
	KindInvalidSource:         {"invalid-source", "Invalid Emscripten SDK source: ", ErrInvalidSource},
	KindRepositoryUnavailable: {"repository-unavailable", "Could not get the Emscripten SDK repo: ", ErrRepositoryUnavailable},
	KindRevisionNotFound:      {"revision-not-found", "Could not find the Emscripten SDK revision: ", ErrRevisionNotFound},
	KindCheckoutFailed:        {"checkout-failed", "Could not checkout the Emscripten commit: ", ErrCheckoutFailed},
	KindHeadUpdateFailed:      {"head-update-failed", "Could not set HEAD: ", ErrHeadUpdateFailed},
	KindInstallFailed:         {"install-failed", "Failed to install EMSDK : ", ErrInstallFailed},
	KindActivateFailed:        {"activate-failed", "Failed to activate Emscripten SDK : ", ErrActivateFailed},
	KindPathJoinFailed:        {"path-join-failed", "Could not join paths: ", ErrPathJoinFailed},
	KindToolchainUnavailable:  {"toolchain-unavailable", "You don't have Emscripten installed: ", ErrToolchainUnavailable},
}

// Error is the single error type returned by provisioning operations.
// Its message is the fixed prefix of its Kind followed by the underlying
// tool's own message.
type Error struct {
	Kind Kind
	// Detail is the underlying tool's message (captured stderr, git error text).
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// String returns the stable, kebab-case name of the kind.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return "unknown"
}

// Prefix returns the fixed human-readable message prefix of the kind.
func (k Kind) Prefix() string {
	return kindInfo[k].prefix
}

// newError builds an Error whose detail is the text of err.
func newError(kind Kind, err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// newErrorDetail builds an Error with an explicit detail text.
func newErrorDetail(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Kind.Prefix() + e.Detail
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	info, ok := kindInfo[e.Kind]
	return ok && target == info.sentinel
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUnknown
}

// trimOutput turns captured process output into a message suffix.
func trimOutput(b []byte) string {
	return strings.TrimRight(string(b), "\r\n")
}
