// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It holds a catalog of Markdown guidance rendered with glamour, one entry
// per provisioning failure, the ActionableError type the CLI wraps failures
// in, and the plain-text manual installation instructions printed when no
// Emscripten compiler can be found.
package issue
