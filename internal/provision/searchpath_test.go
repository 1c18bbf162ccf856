// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

var unixSyntax = listSyntax{separator: ':'}

var windowsSyntax = listSyntax{separator: ';', quotes: true}

func TestListSyntax_Extend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		syntax  listSyntax
		current string
		dest    string
		want    string
		wantErr bool
	}{
		{"appends last", unixSyntax, "/usr/bin:/bin", "/opt/emsdk", "/usr/bin:/bin:/opt/emsdk", false},
		{"empty search path", unixSyntax, "", "/opt/emsdk", "/opt/emsdk", false},
		{"keeps empty entries", unixSyntax, "/usr/bin::/bin", "/opt/emsdk", "/usr/bin::/bin:/opt/emsdk", false},
		{"already present", unixSyntax, "/opt/emsdk:/usr/bin", "/opt/emsdk", "/opt/emsdk:/usr/bin", false},
		{"already present uncleaned", unixSyntax, "/usr/bin:/opt/emsdk/", "/opt/emsdk", "/usr/bin:/opt/emsdk/", false},
		{"separator in destination", unixSyntax, "/usr/bin", "/opt/em:sdk", "", true},
		{"empty destination", unixSyntax, "/usr/bin", "", "", true},
		{"windows appends last", windowsSyntax, `C:\Windows;C:\Tools`, `C:\emsdk`, `C:\Windows;C:\Tools;C:\emsdk`, false},
		{"windows quote in destination", windowsSyntax, `C:\Windows`, `C:\"emsdk`, "", true},
		{"windows quoted entry with separator", windowsSyntax, `"C:\a;b";C:\Tools`, `C:\emsdk`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.syntax.extend(tt.current, tt.dest)
			if tt.wantErr {
				if !errors.Is(err, ErrPathJoinFailed) {
					t.Fatalf("extend() error = %v, want ErrPathJoinFailed", err)
				}
				if !strings.HasPrefix(err.Error(), "Could not join paths: ") {
					t.Errorf("Error() = %q, want join prefix", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("extend() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListSyntax_SplitWindowsQuotes(t *testing.T) {
	t.Parallel()

	got := windowsSyntax.split(`"C:\Program Files;x86";C:\Tools`)
	want := []string{`C:\Program Files;x86`, `C:\Tools`}
	if !slices.Equal(got, want) {
		t.Errorf("split() = %q, want %q", got, want)
	}
}

func TestExtendSearchPath_Idempotent(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "emsdk")
	current := strings.Join([]string{"a", "b"}, string(os.PathListSeparator))

	once, err := ExtendSearchPath(current, dest)
	if err != nil {
		t.Fatalf("ExtendSearchPath() error = %v", err)
	}
	twice, err := ExtendSearchPath(once, dest)
	if err != nil {
		t.Fatalf("second ExtendSearchPath() error = %v", err)
	}
	if once != twice {
		t.Errorf("second extension changed the value: %q -> %q", once, twice)
	}

	entries := SplitSearchPath(once)
	if entries[len(entries)-1] != dest {
		t.Errorf("last entry = %q, want %q", entries[len(entries)-1], dest)
	}
}

func TestExtendSearchPath_MakesExecutableFindable(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	dest := t.TempDir()
	writeCompiler(t, dest)

	if IsAvailable([]string{compilerName()}, empty) {
		t.Fatal("compiler found before the destination was added")
	}

	extended, err := ExtendSearchPath(empty, dest)
	if err != nil {
		t.Fatalf("ExtendSearchPath() error = %v", err)
	}
	path, ok := LookPath([]string{compilerName()}, extended)
	if !ok {
		t.Fatalf("LookPath() found nothing in %q", extended)
	}
	if filepath.Dir(path) != dest {
		t.Errorf("LookPath() = %q, want a match in %q", path, dest)
	}
}
