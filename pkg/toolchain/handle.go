// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"github.com/invowk/emprep/pkg/types"
)

const (
	// emscriptenDir holds the compiler frontend inside the destination.
	emscriptenDir = "emscripten"
	// fastcompDir holds the LLVM backend inside the destination.
	fastcompDir = "emscripten-fastcomp"
)

// Handle locates a provisioned toolchain for build steps.
type Handle struct {
	// BinaryenPath is the optional root of the binaryen optimizer.
	BinaryenPath *types.FilesystemPath `json:"binaryen_path,omitempty" toml:"binaryen_path,omitempty"`
	// EmscriptenPath is the compiler root.
	EmscriptenPath types.FilesystemPath `json:"emscripten_path" toml:"emscripten_path"`
	// LLVMPath is the low-level backend root.
	LLVMPath types.FilesystemPath `json:"llvm_path" toml:"llvm_path"`
}

// HandleFor derives the handle for a toolchain installed at destination.
func HandleFor(destination types.FilesystemPath) Handle {
	return Handle{
		EmscriptenPath: destination.Join(emscriptenDir),
		LLVMPath:       destination.Join(fastcompDir),
	}
}

// WithBinaryen returns a copy of h that also points at a binaryen install.
func (h Handle) WithBinaryen(path types.FilesystemPath) Handle {
	h.BinaryenPath = &path
	return h
}
