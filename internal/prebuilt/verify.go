// SPDX-License-Identifier: MPL-2.0

package prebuilt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrSizeMismatch indicates the archive length differs from the descriptor.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrChecksumMismatch indicates the computed SHA256 hash does not match the expected hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

type (
	// SizeError reports an archive whose length is not the expected one.
	SizeError struct {
		Filename string
		Expected int64
		Got      int64
	}

	// ChecksumError provides details about a checksum verification failure.
	// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
	ChecksumError struct {
		Filename string
		Expected string
		Got      string
	}
)

// Error implements the error interface.
func (e *SizeError) Error() string {
	return fmt.Sprintf("size verification failed for %s: expected %d bytes, got %d", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrSizeMismatch so callers can use errors.Is.
func (e *SizeError) Unwrap() error { return ErrSizeMismatch }

// Error returns a human-readable description of the checksum mismatch,
// showing both expected and actual hash values for debugging.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// Verify checks the file at path against d. The size is compared first so
// that a truncated download is reported without hashing it.
func Verify(path string, d Descriptor) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() != d.Size {
		return &SizeError{Filename: path, Expected: d.Size, Got: info.Size()}
	}

	got, err := ComputeFileHash(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, d.Hash) {
		return &ChecksumError{
			Filename: path,
			Expected: strings.ToLower(d.Hash),
			Got:      got,
		}
	}
	return nil
}

// ComputeFileHash computes and returns the lowercase hex-encoded SHA256 digest
// of the file at path, streaming it through the hash function.
func ComputeFileHash(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
