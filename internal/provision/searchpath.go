// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// SearchPathVar is the environment variable holding the executable search path.
const SearchPathVar = "PATH"

var errEmptyDestination = errors.New("destination directory is empty")

// listSyntax describes how a platform spells a list of directories.
type listSyntax struct {
	separator rune
	// quotes reports whether '"' is reserved for quoting entries (Windows).
	quotes bool
}

var hostSyntax = listSyntax{separator: os.PathListSeparator, quotes: runtime.GOOS == "windows"}

// SplitSearchPath splits a search path value into its ordered entries.
// An empty value has no entries.
func SplitSearchPath(value string) []string {
	return hostSyntax.split(value)
}

// ExtendSearchPath returns current with destination appended as the last,
// lowest-priority entry. When destination is already present the value is
// returned unchanged, so repeated extension never produces duplicates.
// The process environment is not touched; see ApplySearchPath.
func ExtendSearchPath(current, destination string) (string, error) {
	return hostSyntax.extend(current, destination)
}

// ApplySearchPath writes value to the live process search path.
func ApplySearchPath(value string) error {
	if err := os.Setenv(SearchPathVar, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", SearchPathVar, err)
	}
	return nil
}

func (s listSyntax) split(value string) []string {
	if value == "" {
		return nil
	}
	if !s.quotes {
		return strings.Split(value, string(s.separator))
	}

	// A quoted entry may contain the separator; quotes are dropped.
	var entries []string
	var entry strings.Builder
	quoted := false
	for _, r := range value {
		switch {
		case r == '"':
			quoted = !quoted
		case r == s.separator && !quoted:
			entries = append(entries, entry.String())
			entry.Reset()
		default:
			entry.WriteRune(r)
		}
	}
	return append(entries, entry.String())
}

func (s listSyntax) extend(current, destination string) (string, error) {
	if destination == "" {
		return "", newError(KindPathJoinFailed, errEmptyDestination)
	}

	entries := s.split(current)
	if slices.ContainsFunc(entries, func(entry string) bool {
		return entry != "" && filepath.Clean(entry) == filepath.Clean(destination)
	}) {
		return current, nil
	}

	return s.join(append(entries, destination))
}

// join fails when an entry cannot be represented in the list syntax.
func (s listSyntax) join(entries []string) (string, error) {
	for _, entry := range entries {
		if strings.ContainsRune(entry, s.separator) {
			return "", newErrorDetail(KindPathJoinFailed,
				fmt.Sprintf("path segment %q contains separator %q", entry, s.separator), nil)
		}
		if s.quotes && strings.Contains(entry, `"`) {
			return "", newErrorDetail(KindPathJoinFailed,
				fmt.Sprintf("path segment %q contains a quote", entry), nil)
		}
	}
	return strings.Join(entries, string(s.separator)), nil
}
