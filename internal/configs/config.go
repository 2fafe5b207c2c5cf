package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences. Everything here is ambient: the credential
// profiles and the domain table live inside the executable itself, never in
// this file.
type Config struct {
	// DefaultProfile names the profile used when --account is not given.
	DefaultProfile string `toml:"default_profile"`

	// BinaryPath overrides the managed executable path. Empty means the
	// running executable. Used by tests and development builds so a debug
	// binary does not rewrite itself.
	BinaryPath string `toml:"binary_path"`

	Setup SetupConfig `toml:"setup"`
}

// SetupConfig holds the structure-generation parameters used by first-time
// setup. The coordinate range is always 10 + dimensions.
type SetupConfig struct {
	// Dimensions is the dimensionality of the generated structure.
	Dimensions int `toml:"dimensions"`

	// ExtraChars is how many output characters are emitted per keystroke
	// beyond the primary one.
	ExtraChars int `toml:"extra_chars"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Setup: SetupConfig{
			Dimensions: 7,
			ExtraChars: 7,
		},
	}
}

func configFilePath() string {
	return filepath.Join(VaultSettings.ConfigPath, "config.toml")
}

// LoadConfig reads config.toml, returning defaults when the file does not
// exist. A malformed file is an error; silently ignoring it could point a
// rewrite at the wrong binary.
func LoadConfig() (*Config, error) {
	path := configFilePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if config.Setup.Dimensions <= 0 {
		config.Setup.Dimensions = 7
	}
	if config.Setup.ExtraChars < 0 {
		config.Setup.ExtraChars = 7
	}

	return config, nil
}

// SaveConfig writes the configuration to config.toml, creating the config
// directory on first save.
func SaveConfig(config *Config) error {
	path := configFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(config)
}
