// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/invowk/emprep/pkg/types"
)

func isLinux() bool {
	return runtime.GOOS == "linux"
}

func TestLockFilePath(t *testing.T) {
	t.Parallel()

	dest := filepath.Join("opt", "emsdk")
	if got, want := lockFilePath(types.FilesystemPath(dest+string(filepath.Separator))), dest+".lock"; got != want {
		t.Errorf("lockFilePath() = %q, want %q", got, want)
	}
}

func TestDestinationLock_ReleaseTwice(t *testing.T) {
	t.Parallel()

	lock, err := acquireDestinationLock(context.Background(), types.FilesystemPath(filepath.Join(t.TempDir(), "emsdk")))
	if err != nil {
		t.Fatalf("acquireDestinationLock() error = %v", err)
	}
	lock.Release()
	lock.Release()
}

func TestDestinationLock_Contended(t *testing.T) {
	if !isLinux() {
		t.Skip("destination locking is only enforced on Linux")
	}
	t.Parallel()

	dest := types.FilesystemPath(filepath.Join(t.TempDir(), "emsdk"))
	held, err := acquireDestinationLock(context.Background(), dest)
	if err != nil {
		t.Fatalf("acquireDestinationLock() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*lockPollInterval)
	defer cancel()
	if _, err := acquireDestinationLock(ctx, dest); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second acquire error = %v, want deadline exceeded", err)
	}

	held.Release()

	done := make(chan error, 1)
	go func() {
		l, err := acquireDestinationLock(context.Background(), dest)
		if err == nil {
			l.Release()
		}
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("acquire after release error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("acquire after release did not complete")
	}
}
