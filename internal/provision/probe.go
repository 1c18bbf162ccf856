// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsAvailable reports whether any of candidates is an executable file in
// one of the directories of searchPath. It only reads the filesystem.
func IsAvailable(candidates []string, searchPath string) bool {
	_, ok := LookPath(candidates, searchPath)
	return ok
}

// LookPath returns the first executable match for candidates in searchPath.
// Candidates are tried in order, and for each candidate the directories are
// tried in search-path order. Empty entries are skipped rather than being
// read as the working directory.
func LookPath(candidates []string, searchPath string) (string, bool) {
	dirs := SplitSearchPath(searchPath)
	for _, candidate := range candidates {
		for _, dir := range dirs {
			if dir == "" {
				continue
			}
			for _, name := range executableNames(candidate) {
				path := filepath.Join(dir, name)
				if isExecutable(path) {
					return path, true
				}
			}
		}
	}
	return "", false
}

// isExecutable follows symlinks, so a link to an SDK binary counts.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return hasExecutableMode(info.Mode())
}

// RequireCompiler returns the first candidate found in searchPath, or a
// KindToolchainUnavailable error naming what was looked for.
func RequireCompiler(candidates []string, searchPath string) (string, error) {
	if path, ok := LookPath(candidates, searchPath); ok {
		return path, nil
	}
	return "", newErrorDetail(KindToolchainUnavailable,
		fmt.Sprintf("none of %s found in search path", strings.Join(candidates, ", ")), nil)
}
