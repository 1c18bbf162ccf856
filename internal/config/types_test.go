// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/invowk/emprep/pkg/toolchain"
	"github.com/invowk/emprep/pkg/types"
)

func TestColorScheme_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		wantErr bool
	}{
		{ColorSchemeAuto, false},
		{ColorSchemeDark, false},
		{ColorSchemeLight, false},
		{"", true},
		{"solarized", true},
		{"AUTO", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			err := tt.scheme.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("ColorScheme(%q).Validate() = %v, want nil", tt.scheme, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidColorScheme) {
				t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", err)
			}
		})
	}
}

func TestCacheDirPath_Validate(t *testing.T) {
	t.Parallel()

	if err := CacheDirPath("").Validate(); err != nil {
		t.Errorf("zero value should be valid, got: %v", err)
	}
	if err := CacheDirPath("/var/cache/emprep").Validate(); err != nil {
		t.Errorf("absolute path should be valid, got: %v", err)
	}
	if err := CacheDirPath(" \t").Validate(); !errors.Is(err, ErrInvalidCacheDirPath) {
		t.Errorf("whitespace-only path should wrap ErrInvalidCacheDirPath, got: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid, got: %v", err)
	}

	cfg := *DefaultConfig()
	cfg.RepositoryURL = "relative/emsdk"
	cfg.Destination = ""
	cfg.UI.ColorScheme = "neon"

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error should wrap ErrInvalidConfig, got: %v", err)
	}
	for _, want := range []error{toolchain.ErrInvalidGitURL, types.ErrInvalidFilesystemPath, ErrInvalidColorScheme} {
		if !errors.Is(err, want) {
			t.Errorf("error should wrap %v, got: %v", want, err)
		}
	}

	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got: %T", err)
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}

func TestConfig_Source(t *testing.T) {
	t.Parallel()

	cfg := Config{RepositoryURL: "git@example.com:emsdk.git", Revision: "v1", SDKVersion: "3.1.0"}
	want := toolchain.Source{RepositoryURL: "git@example.com:emsdk.git", Revision: "v1", Version: "3.1.0"}
	if got := cfg.Source(); got != want {
		t.Errorf("Source() = %+v, want %+v", got, want)
	}
}
