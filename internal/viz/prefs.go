package viz

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the config file location, relative to the working directory.
const PrefsPath = "config/blobfield.json"

// LoadPrefs reads a saved Config. A missing or unreadable file is not an
// error: defaults are returned so a fresh checkout runs as-is.
func LoadPrefs() Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(PrefsPath)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}
	cfg.Clamp()
	return cfg
}

// SavePrefs persists the config, creating the directory if needed.
func SavePrefs(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(PrefsPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(PrefsPath, data, 0644)
}
