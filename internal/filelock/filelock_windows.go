//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// pollInterval is the wait between attempts while another handle holds
// the lock. LockFileEx without LOCKFILE_FAIL_IMMEDIATELY would park the OS
// thread instead.
const pollInterval = 2 * time.Millisecond

// lockedRange covers the first byte of the lock file; the file stays empty.
var lockedRange = struct{ low, high uint32 }{1, 0}

func lockFile(f *os.File) error {
	h := windows.Handle(f.Fd())
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	for {
		err := windows.LockFileEx(h, flags, 0, lockedRange.low, lockedRange.high, new(windows.Overlapped))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
			time.Sleep(pollInterval)
		default:
			return err
		}
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockedRange.low, lockedRange.high, new(windows.Overlapped))
}
