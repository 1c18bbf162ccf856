// SPDX-License-Identifier: MPL-2.0

//go:build windows

package provision

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// executableNames returns name itself when it already carries an
// extension, followed by name with each PATHEXT extension appended.
func executableNames(name string) []string {
	pathExt := os.Getenv("PATHEXT")
	if pathExt == "" {
		pathExt = defaultPathExt
	}

	names := []string{}
	if filepath.Ext(name) != "" {
		names = append(names, name)
	}
	for ext := range strings.SplitSeq(strings.ToLower(pathExt), ";") {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		names = append(names, name+ext)
	}
	return names
}

func hasExecutableMode(fs.FileMode) bool {
	return true
}
