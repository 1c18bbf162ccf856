// SPDX-License-Identifier: MPL-2.0

//go:build linux

package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/invowk/emprep/pkg/types"
)

// lockPollInterval is how often a contended lock is retried while the
// context is still live.
const lockPollInterval = 100 * time.Millisecond

// destinationLock holds an exclusive flock on "<destination>.lock". The
// kernel drops the lock when the descriptor is closed, including on crash,
// so an orphaned zero-byte lock file is harmless.
type destinationLock struct {
	file *os.File
}

// acquireDestinationLock blocks until the lock for destination is held or
// ctx is done.
func acquireDestinationLock(ctx context.Context, destination types.FilesystemPath) (*destinationLock, error) {
	lockPath := lockFilePath(destination)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", lockPath, err)
	}

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &destinationLock{file: f}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, fmt.Errorf("flock %s: %w", lockPath, err)
		}

		select {
		case <-ctx.Done():
			f.Close()
			return nil, fmt.Errorf("waiting for %s: %w", lockPath, ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

// Release unlocks and closes the lock file. Safe to call more than once.
func (l *destinationLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		slog.Debug("flock unlock failed", "error", err)
	}
	if err := l.file.Close(); err != nil {
		slog.Debug("lock file close failed", "error", err)
	}
	l.file = nil
}
