// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package provision

import (
	"context"

	"github.com/invowk/emprep/pkg/types"
)

// destinationLock is the non-Linux stub; provisioning is not serialized
// across processes there.
type destinationLock struct{}

func acquireDestinationLock(context.Context, types.FilesystemPath) (*destinationLock, error) {
	return &destinationLock{}, nil
}

// Release is a no-op on non-Linux platforms.
func (l *destinationLock) Release() {}
