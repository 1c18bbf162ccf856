// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It normalizes operating system and CPU architecture names into the tags
// used to select prebuilt archives, and knows the platform-specific names
// of the emsdk installer and the compiler driver. It also detects
// application sandboxes, which change the manual installation advice.
package platform
