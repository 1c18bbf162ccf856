// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"revision"}, "revision"},
		{[]string{"ui", "color_scheme"}, "ui.color_scheme"},
		{[]string{"list", "0", "name"}, "list[0].name"},
		{[]string{"0"}, "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatCUEError_NonCUE(t *testing.T) {
	t.Parallel()

	if formatCUEError(nil, "x.cue") != nil {
		t.Error("nil error should stay nil")
	}

	base := errors.New("boom")
	err := formatCUEError(base, "x.cue")
	if !errors.Is(err, base) || err.Error() != "x.cue: boom" {
		t.Errorf("formatCUEError() = %v", err)
	}
}

func TestDecodeCUE(t *testing.T) {
	t.Parallel()

	m, err := decodeCUE([]byte("revision: \"v1\"\nui: verbose: true\n"), "config.cue")
	if err != nil {
		t.Fatalf("decodeCUE() error: %v", err)
	}
	if m["revision"] != "v1" {
		t.Errorf("revision = %v, want v1", m["revision"])
	}
	ui, ok := m["ui"].(map[string]any)
	if !ok || ui["verbose"] != true {
		t.Errorf("ui = %#v, want verbose true", m["ui"])
	}
}

func TestDecodeCUE_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("// " + strings.Repeat("x", maxConfigFileSize))
	_, err := decodeCUE(data, "big.cue")
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got %v", err)
	}
}
