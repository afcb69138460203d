package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	t.Setenv("AIFRONT_HOME", "")
	home, _ := os.UserHomeDir()
	got := Dir("local")
	want := filepath.Join(home, ".aifront", "profiles", "local")
	if got != want {
		t.Errorf("Dir(local) = %q, want %q", got, want)
	}
}

func TestBaseDirOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AIFRONT_HOME", tmpDir)
	if got := BaseDir(); got != tmpDir {
		t.Errorf("BaseDir() = %q, want %q", got, tmpDir)
	}
	if got := ConfigPath(); got != filepath.Join(tmpDir, "config.toml") {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestStateDBPath(t *testing.T) {
	got := StateDBPath("test")
	if !strings.HasSuffix(got, filepath.Join("profiles", "test", "state.db")) {
		t.Errorf("StateDBPath(test) = %q, want suffix profiles/test/state.db", got)
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("test", "aifront")
	if !strings.HasSuffix(got, filepath.Join("profiles", "test", "logs", "aifront.log")) {
		t.Errorf("LogPath(test) = %q, want suffix profiles/test/logs/aifront.log", got)
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AIFRONT_HOME", tmpDir)

	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}

	for _, d := range []string{Dir("test"), LogDir("test")} {
		info, err := os.Stat(d)
		if err != nil {
			t.Fatalf("%s not created: %v", d, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("%s permission = %o, want 0700", d, perm)
		}
	}
}
