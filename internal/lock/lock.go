// Package lock serializes organize runs on the same target directory across
// processes. The lock file never lives inside the target, so it cannot be
// mistaken for an entry to organize.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"dirsort/internal/errors"
	"dirsort/internal/log"

	"github.com/gofrs/flock"
)

// RunLock is an advisory, non-blocking lock keyed by a target directory
type RunLock struct {
	target string
	path   string
	lock   *flock.Flock
}

// New prepares a lock for target. dir holds the lock files; when empty the
// user cache directory is used, falling back to the temp directory.
func New(target, dir string) (*RunLock, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve target %s", target)
	}

	if dir == "" {
		dir = defaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create lock directory %s", dir)
	}

	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	path := filepath.Join(dir, "dirsort-"+hex.EncodeToString(sum[:8])+".lock")
	return &RunLock{
		target: abs,
		path:   path,
		lock:   flock.New(path),
	}, nil
}

func defaultDir() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "dirsort")
	}
	return filepath.Join(os.TempDir(), "dirsort")
}

// Path returns the lock file location
func (l *RunLock) Path() string {
	return l.path
}

// Acquire takes the lock or fails at once with a LockBusy error when another
// run holds it.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "acquire lock %s", l.path)
	}
	if !ok {
		return errors.NewKind(errors.LockBusy, "another run is in progress for "+l.target, nil)
	}
	log.LogWithFields(log.F("target", l.target), log.F("lock", l.path)).Debug("Acquired run lock")
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *RunLock) Release() {
	if !l.lock.Locked() {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		log.LogWithError(err).With(log.F("lock", l.path)).Warn("failed to release run lock")
	}
}

// Do runs fn while holding the lock
func (l *RunLock) Do(fn func() error) error {
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
