// SPDX-License-Identifier: MPL-2.0

// Package toolchain defines the data model for a provisioned Emscripten SDK.
//
// A [Source] names what to install: the emsdk control repository, the
// revision to check out and the SDK version to install and activate. It is
// static configuration and fully determines the provisioned result.
//
// A [Handle] is derived from the destination directory after provisioning
// and tells build steps where the compiler and its backend live. Handles are
// never persisted; call [HandleFor] again on every run.
package toolchain
