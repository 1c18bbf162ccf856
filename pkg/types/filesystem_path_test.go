// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/opt/emsdk"), false},
		{"relative path", FilesystemPath("emsdk"), false},
		{"windows style", FilesystemPath("F:\\Repos\\emsdk"), false},
		{"dot path", FilesystemPath("."), false},
		{"empty is invalid", FilesystemPath(""), true},
		{"whitespace only is invalid", FilesystemPath("   "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FilesystemPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(err, &fpErr) {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_Join(t *testing.T) {
	t.Parallel()

	got := FilesystemPath("root").Join("emscripten", "emcc")
	want := FilesystemPath(filepath.Join("root", "emscripten", "emcc"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestFilesystemPath_Abs(t *testing.T) {
	t.Parallel()

	got, err := FilesystemPath("emsdk").Abs()
	if err != nil {
		t.Fatalf("Abs() error: %v", err)
	}
	if !filepath.IsAbs(string(got)) {
		t.Errorf("Abs() = %q, want an absolute path", got)
	}
}
