package config

import (
	"os"
	"path/filepath"
)

// ValidSharePlatforms is the set of recognized share targets.
var ValidSharePlatforms = map[string]bool{
	"linkedin": true,
	"x":        true,
	"facebook": true,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:         "http://localhost:5000/api",
		TimeoutSeconds: 30,
		SharePlatform:  "linkedin",
		Features: Features{
			AITemplate:  true,
			AIImage:     true,
			LocalUpload: true,
		},
		Preview: PreviewConfig{
			Port:        3939,
			OpenBrowser: true,
		},
	}
}

// ResolveDataDir returns the configured data directory, defaulting to
// ~/.blogsmith when unset.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".blogsmith"), nil
}
