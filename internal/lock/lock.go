// Package lock keeps a single interactive client per profile so that two
// terminals do not interleave writes to the same recents table.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// HeldError is returned when another process owns the lock.
type HeldError struct {
	PID   int
	Owner string
	Path  string
}

func (e *HeldError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("%s already running for this profile (PID %d, %s)", e.Owner, e.PID, e.Path)
	}
	return fmt.Sprintf("profile in use by PID %d (%s)", e.PID, e.Path)
}

// Lock is an acquired advisory lock file.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive, non-blocking flock on <dir>/<owner>.lock and
// records the owner and PID in it.
func Acquire(dir, owner string) (*Lock, error) {
	path := filepath.Join(dir, owner+".lock")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		data, _ := os.ReadFile(path)
		_ = f.Close()
		return nil, &HeldError{PID: parsePID(string(data)), Owner: owner, Path: path}
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	content := fmt.Sprintf("pid=%d\nowner=%s\ntime=%s\n", os.Getpid(), owner, time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteAt([]byte(content), 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{file: f, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. Safe on a nil or already released lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func parsePID(content string) int {
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "pid="); ok {
			pid, _ := strconv.Atoi(after)
			return pid
		}
	}
	return 0
}
