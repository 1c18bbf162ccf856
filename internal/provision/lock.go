// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"path/filepath"

	"github.com/invowk/emprep/pkg/types"
)

// lockSuffix is appended to the destination to name its lock file. The lock
// lives beside the destination so it never shows up in the git working tree.
const lockSuffix = ".lock"

// lockFilePath returns the lock file path guarding destination.
func lockFilePath(destination types.FilesystemPath) string {
	return filepath.Clean(string(destination)) + lockSuffix
}
