// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_MessageIsPrefixPlusDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindRepositoryUnavailable, "Could not get the Emscripten SDK repo: boom"},
		{KindRevisionNotFound, "Could not find the Emscripten SDK revision: boom"},
		{KindCheckoutFailed, "Could not checkout the Emscripten commit: boom"},
		{KindHeadUpdateFailed, "Could not set HEAD: boom"},
		{KindInstallFailed, "Failed to install EMSDK : boom"},
		{KindActivateFailed, "Failed to activate Emscripten SDK : boom"},
		{KindPathJoinFailed, "Could not join paths: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			err := newErrorDetail(tt.kind, "boom", nil)
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesKindSentinel(t *testing.T) {
	t.Parallel()

	cause := errors.New("object not found")
	err := fmt.Errorf("resolve: %w", newError(KindRevisionNotFound, cause))

	if !errors.Is(err, ErrRevisionNotFound) {
		t.Error("errors.Is(err, ErrRevisionNotFound) = false")
	}
	if errors.Is(err, ErrCheckoutFailed) {
		t.Error("errors.Is(err, ErrCheckoutFailed) = true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if got := KindOf(err); got != KindRevisionNotFound {
		t.Errorf("KindOf() = %v, want %v", got, KindRevisionNotFound)
	}
	if got := KindOf(cause); got != KindUnknown {
		t.Errorf("KindOf(plain error) = %v, want unknown", got)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if got := KindToolchainUnavailable.String(); got != "toolchain-unavailable" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
