package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireWritesOwner(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir, "aifront")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = l.Release() }()

	if want := filepath.Join(dir, "aifront.lock"); l.Path() != want {
		t.Errorf("Path() = %q, want %q", l.Path(), want)
	}
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if !strings.Contains(string(data), "pid="+strconv.Itoa(os.Getpid())) {
		t.Errorf("lock file = %q, want current pid", data)
	}
	if !strings.Contains(string(data), "owner=aifront") {
		t.Errorf("lock file = %q, want owner", data)
	}
}

func TestSecondAcquireFails(t *testing.T) {
	dir := t.TempDir()

	l1, err := Acquire(dir, "aifront")
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(dir, "aifront")
	var held *HeldError
	if !errors.As(err, &held) {
		t.Fatalf("second Acquire() error = %T %v, want *HeldError", err, err)
	}
	if held.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", held.PID, os.Getpid())
	}
	if !strings.Contains(held.Error(), "aifront already running") {
		t.Errorf("Error() = %q", held.Error())
	}
}

func TestOwnersAreIndependent(t *testing.T) {
	dir := t.TempDir()
	a, err := Acquire(dir, "aifront")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Release() }()
	b, err := Acquire(dir, "aifrontstub")
	if err != nil {
		t.Fatalf("Acquire(other owner) error = %v", err)
	}
	_ = b.Release()
}

func TestReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()
	l, err := Acquire(dir, "aifront")
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	again, err := Acquire(dir, "aifront")
	if err != nil {
		t.Fatalf("re-Acquire() error = %v", err)
	}
	_ = again.Release()
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
	if l.Path() != "" {
		t.Error("nil Path() should be empty")
	}
}
