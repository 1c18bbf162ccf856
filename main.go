// SPDX-License-Identifier: MPL-2.0

// Command emprep provisions a pinned Emscripten SDK for WebAssembly builds.
package main

import "github.com/invowk/emprep/cmd/emprep"

func main() {
	cmd.Execute()
}
