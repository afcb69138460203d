package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.aifront, or $AIFRONT_HOME when set.
func BaseDir() string {
	if dir := os.Getenv("AIFRONT_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".aifront")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// StateDBPath returns the local state database (request journal, recents).
func StateDBPath(name string) string {
	return filepath.Join(Dir(name), "state.db")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the log file path for the given binary.
func LogPath(name, binary string) string {
	return filepath.Join(LogDir(name), binary+".log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
