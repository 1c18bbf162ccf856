// SPDX-License-Identifier: MPL-2.0

// Package prebuilt describes prebuilt Emscripten toolchain archives.
//
// A Selector maps an operating system and CPU architecture to the
// Descriptor of an archive built for exactly that platform, or reports that
// none exists. Callers that get no match fall back to building from the
// emsdk repository or to manual installation guidance; a missing archive is
// never an error.
//
// Fetcher downloads an archive and checks it with Verify. Unpacking the
// archive is left to the caller.
package prebuilt
