package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileName = ".targetgen.lock"
)

// OutputLock manages a file-based lock on a generator output directory.
type OutputLock struct {
	lock *flock.Flock
	path string
}

// NewOutputLock creates a new lock for the given output directory.
func NewOutputLock(outputDir string) (*OutputLock, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute output path: %w", err)
	}
	lockPath := filepath.Join(absDir, lockFileName)
	return &OutputLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// Lock acquires the output lock, waiting if necessary.
// It will log a message if it has to wait.
func (l *OutputLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		Log.Warnf("Another targetgen process is writing to %s, waiting for it to finish...", filepath.Dir(l.path))
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the output lock and removes the lock file, so the output
// directory holds nothing but the generated files.
func (l *OutputLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file location.
func (l *OutputLock) Path() string {
	return l.path
}
