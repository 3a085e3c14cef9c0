// Package filelock provides advisory file locking around read-modify-write
// cycles on todo files, so a CLI invocation and the TUI never interleave
// their saves.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Suffix is appended to a todo file path to name its lock file.
const Suffix = ".lock"

// Lock acquires an exclusive advisory lock on the file at path,
// creating it if it does not exist. The returned function releases
// the lock and must be called when the critical section is done.
//
// Only one process can hold the lock at a time; other callers block
// until the lock is available.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock that guards target. The lock file
// sits next to target.
func With(target string, fn func() error) (err error) {
	unlock, err := Lock(target + Suffix)
	if err != nil {
		return fmt.Errorf("locking %s: %w", target, err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("unlocking %s: %w", target, uerr)
		}
	}()
	return fn()
}
