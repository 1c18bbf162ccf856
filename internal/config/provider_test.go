// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `sdk_version: "3.1.0"`+"\n")

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: dir,
		Getenv:        staticEnv(nil),
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != cfgPath {
		t.Errorf("Path = %q, want %q", loaded.Path, cfgPath)
	}
	if loaded.SDKVersion != "3.1.0" {
		t.Errorf("SDKVersion = %q, want 3.1.0", loaded.SDKVersion)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path, err := Path(LoadOptions{ConfigDirPath: dir})
	if err != nil || path != "" {
		t.Errorf("Path() without a file = %q, %v; want empty", path, err)
	}

	cfgPath := writeConfig(t, dir, "")
	path, err = Path(LoadOptions{ConfigDirPath: dir})
	if err != nil || path != cfgPath {
		t.Errorf("Path() = %q, %v; want %q", path, err, cfgPath)
	}

	explicit := filepath.Join(dir, "other.cue")
	path, err = Path(LoadOptions{ConfigFilePath: explicit, ConfigDirPath: dir})
	if err != nil || path != explicit {
		t.Errorf("Path() with explicit file = %q, %v; want %q", path, err, explicit)
	}
}
