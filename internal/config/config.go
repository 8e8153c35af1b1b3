package config

import (
	"os"
	"path/filepath"

	"storyforge/internal/domain"
)

// DataDir returns the data directory from the STORYFORGE_HOME env var,
// falling back to ~/.storyforge.
func DataDir() string {
	if env := os.Getenv("STORYFORGE_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storyforge"
	}
	return filepath.Join(home, ".storyforge")
}

// SnapshotDir returns the directory holding the badger snapshot database.
func SnapshotDir() string {
	return filepath.Join(DataDir(), "state")
}

// ApplyEnvOverrides fills in provider credentials from the environment when
// the stored settings carry none. OPENAI_API_KEY and OPENAI_BASE_URL apply
// to the active provider only.
func ApplyEnvOverrides(settings domain.Settings) domain.Settings {
	provider := settings.Provider
	if provider == "" {
		provider = "openai"
		settings.Provider = provider
	}
	if settings.Providers == nil {
		settings.Providers = make(map[string]domain.ProviderConfig)
	}

	cfg := settings.Providers[provider]
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	settings.Providers[provider] = cfg
	return settings
}
