package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockRetryDelay = 5 * time.Millisecond
	lockWaitLimit  = 2 * time.Second
)

// lockedFile is an exclusive "<path>.lock" sibling of a repository file. The
// new content is written to the lock file and renamed over path on commit.
type lockedFile struct {
	path     string
	lockPath string
	f        *os.File
	done     bool
}

// lockFile creates path's parent directory and acquires path.lock, waiting up
// to lockWaitLimit for another holder to finish.
func lockFile(path string) (*lockedFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("lock %q: mkdir: %w", path, err)
	}
	lockPath := path + ".lock"
	deadline := time.Now().Add(lockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return &lockedFile{path: path, lockPath: lockPath, f: f}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("lock %q: %w", path, err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock %q: %w", lockPath, ErrLockTimeout)
		}
		time.Sleep(lockRetryDelay)
	}
}

// commit writes data, syncs it and renames the lock file over the target.
func (l *lockedFile) commit(data []byte) error {
	if _, err := l.f.Write(data); err != nil {
		return fmt.Errorf("write %q: %w", l.path, err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", l.path, err)
	}
	err := l.f.Close()
	l.f = nil
	if err != nil {
		return fmt.Errorf("close %q: %w", l.path, err)
	}
	if err := os.Rename(l.lockPath, l.path); err != nil {
		return fmt.Errorf("rename %q: %w", l.path, err)
	}
	l.done = true
	return nil
}

// release drops the lock without touching the target. It is a no-op after a
// successful commit.
func (l *lockedFile) release() {
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	if !l.done {
		_ = os.Remove(l.lockPath)
		l.done = true
	}
}

// writeFileLocked replaces path with data under its lock file.
func writeFileLocked(path string, data []byte) error {
	l, err := lockFile(path)
	if err != nil {
		return err
	}
	defer l.release()
	return l.commit(data)
}
