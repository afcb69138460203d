package profile

import "github.com/ccumaco/ai-frontend/internal/config"

const DefaultProfileName = "local"

// Resolve determines the active profile name using precedence:
// 1. flagOverride (--profile flag)
// 2. config.toml default_profile
// 3. "local"
func Resolve(flagOverride string, cfg *config.Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil && cfg.DefaultProfile != "" {
		return cfg.DefaultProfile
	}
	return DefaultProfileName
}

// LoadConfig reads the global config file. A missing or unreadable file
// yields an empty config so that defaults apply.
func LoadConfig() *config.Config {
	cfg, err := config.Load(ConfigPath())
	if err != nil {
		return &config.Config{}
	}
	return cfg
}
