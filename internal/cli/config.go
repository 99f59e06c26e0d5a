package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// userConfig holds optional per-user defaults loaded from
// ~/.config/hashheat/config.toml. Values become flag defaults, so flags
// always win.
type userConfig struct {
	// Country is the default reference country (us or ca).
	Country string `toml:"country"`

	// Region is the default region code for ranking labels.
	Region string `toml:"region"`

	// CacheDir overrides the XDG cache location.
	CacheDir string `toml:"cache_dir"`

	// StoreDir overrides the default report store location.
	StoreDir string `toml:"store_dir"`
}

// loadUserConfig reads the user config file. A missing file yields the
// zero config; a malformed one is ignored rather than blocking every
// command.
func loadUserConfig() userConfig {
	path, err := configPath()
	if err != nil {
		return userConfig{}
	}

	var cfg userConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return userConfig{}
	}
	return cfg
}

// configPath returns the config file location using the XDG convention
// (~/.config/hashheat/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
