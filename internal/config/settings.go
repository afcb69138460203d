package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvAPIURL selects the backend base URL.
	EnvAPIURL = "AIFRONT_API_URL"

	DefaultAPIURL   = "http://localhost:3000/api/v1"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// Settings is the effective configuration for one run after merging flags,
// environment and the active profile.
type Settings struct {
	Profile     string
	APIURL      string
	Timeout     time.Duration
	LogLevel    string
	MetricsAddr string
	Tracing     TracingConfig
}

// Overrides carries command-line values that take precedence over everything else.
type Overrides struct {
	APIURL string
}

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already set in the process environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Resolve merges settings with precedence flag > environment > profile > default.
// A nil cfg behaves like an empty config file.
func Resolve(cfg *Config, profile string, o Overrides) Settings {
	p := cfg.Profile(profile)
	s := Settings{
		Profile:     profile,
		APIURL:      DefaultAPIURL,
		Timeout:     DefaultTimeout,
		LogLevel:    DefaultLogLevel,
		MetricsAddr: p.MetricsAddr,
		Tracing:     p.Tracing,
	}
	if p.APIURL != "" {
		s.APIURL = p.APIURL
	}
	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		s.APIURL = env
	}
	if o.APIURL != "" {
		s.APIURL = o.APIURL
	}
	s.APIURL = strings.TrimRight(s.APIURL, "/")

	if p.Timeout > 0 {
		s.Timeout = time.Duration(p.Timeout)
	}
	if p.LogLevel != "" {
		s.LogLevel = p.LogLevel
	}
	return s
}
