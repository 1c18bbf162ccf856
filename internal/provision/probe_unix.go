// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package provision

import "io/fs"

func executableNames(name string) []string {
	return []string{name}
}

// hasExecutableMode accepts any of the owner, group or other execute bits.
func hasExecutableMode(mode fs.FileMode) bool {
	return mode.Perm()&0o111 != 0
}
