// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// DefaultRepositoryURL is the upstream emsdk control repository.
	DefaultRepositoryURL GitURL = "https://github.com/emscripten-core/emsdk.git"
	// DefaultRevision is the branch checked out when none is configured.
	DefaultRevision Revision = "main"
	// DefaultVersion is the SDK version installed when none is configured.
	DefaultVersion SDKVersion = "2.0.9"
)

var (
	// ErrInvalidGitURL is the sentinel error wrapped by InvalidGitURLError.
	ErrInvalidGitURL = errors.New("invalid git URL")
	// ErrInvalidRevision is returned when a Revision is empty.
	ErrInvalidRevision = errors.New("invalid revision")
	// ErrInvalidSDKVersion is returned when an SDKVersion is empty.
	ErrInvalidSDKVersion = errors.New("invalid SDK version")
	// ErrInvalidSource is the sentinel error wrapped by InvalidSourceError.
	ErrInvalidSource = errors.New("invalid toolchain source")

	gitURLPrefixes = []string{"https://", "http://", "git@", "ssh://", "file://"}
)

type (
	// GitURL is the location of the emsdk control repository: an HTTPS, SSH,
	// scp-like or file URL, or an absolute path to a local repository.
	GitURL string

	// Revision is a branch name, tag or commit id (full or abbreviated).
	Revision string

	// SDKVersion is the argument passed to "emsdk install" and "emsdk activate".
	// Besides semantic versions emsdk accepts aliases such as "latest" or
	// "tot", so only emptiness is rejected.
	SDKVersion string

	// Source fully determines what gets installed. Construct it once per
	// provisioning attempt and treat it as immutable.
	Source struct {
		RepositoryURL GitURL     `json:"repository_url" toml:"repository_url"`
		Revision      Revision   `json:"revision" toml:"revision"`
		Version       SDKVersion `json:"sdk_version" toml:"sdk_version"`
	}

	// InvalidGitURLError is returned when a GitURL has an unsupported form.
	InvalidGitURLError struct {
		Value GitURL
	}

	// InvalidSourceError collects field-level validation errors of a Source.
	InvalidSourceError struct {
		FieldErrors []error
	}
)

// DefaultSource returns the upstream emsdk repository pinned to the default
// revision and SDK version.
func DefaultSource() Source {
	return Source{
		RepositoryURL: DefaultRepositoryURL,
		Revision:      DefaultRevision,
		Version:       DefaultVersion,
	}
}

// Validate checks every field and returns an *InvalidSourceError listing all
// problems, or nil.
func (s Source) Validate() error {
	var errs []error
	if err := s.RepositoryURL.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Revision.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Version.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidSourceError{FieldErrors: errs}
	}
	return nil
}

// String renders the source as "url@revision (sdk version)".
func (s Source) String() string {
	return fmt.Sprintf("%s@%s (sdk %s)", s.RepositoryURL, s.Revision, s.Version)
}

// Error implements the error interface.
func (e *InvalidSourceError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid toolchain source: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidSource followed by every field error.
func (e *InvalidSourceError) Unwrap() []error {
	return append([]error{ErrInvalidSource}, e.FieldErrors...)
}

// Validate returns nil if the URL has a supported form.
func (u GitURL) Validate() error {
	s := string(u)
	if s == "" {
		return &InvalidGitURLError{Value: u}
	}
	for _, prefix := range gitURLPrefixes {
		if strings.HasPrefix(s, prefix) {
			return nil
		}
	}
	if filepath.IsAbs(s) {
		return nil
	}
	return &InvalidGitURLError{Value: u}
}

// String returns the string representation of the GitURL.
func (u GitURL) String() string { return string(u) }

// Error implements the error interface.
func (e *InvalidGitURLError) Error() string {
	return fmt.Sprintf("invalid git URL %q (must be https://, http://, git@, ssh://, file:// or an absolute path)", e.Value)
}

// Unwrap returns ErrInvalidGitURL so callers can use errors.Is for programmatic detection.
func (e *InvalidGitURLError) Unwrap() error { return ErrInvalidGitURL }

// Validate returns an error if the revision is empty or whitespace-only.
func (r Revision) Validate() error {
	if strings.TrimSpace(string(r)) == "" {
		return fmt.Errorf("%w: must be non-empty", ErrInvalidRevision)
	}
	return nil
}

// String returns the string representation of the Revision.
func (r Revision) String() string { return string(r) }

// Validate returns an error if the version is empty or whitespace-only.
func (v SDKVersion) Validate() error {
	if strings.TrimSpace(string(v)) == "" {
		return fmt.Errorf("%w: must be non-empty", ErrInvalidSDKVersion)
	}
	return nil
}

// String returns the string representation of the SDKVersion.
func (v SDKVersion) String() string { return string(v) }

// IsSemantic reports whether the version is a semantic version rather than
// an emsdk alias such as "latest".
func (v SDKVersion) IsSemantic() bool {
	return semver.IsValid(v.canonical())
}

// Compare orders two semantic SDK versions like semver.Compare. Aliases sort
// before every semantic version.
func (v SDKVersion) Compare(other SDKVersion) int {
	return semver.Compare(v.canonical(), other.canonical())
}

func (v SDKVersion) canonical() string {
	s := string(v)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return s
}
