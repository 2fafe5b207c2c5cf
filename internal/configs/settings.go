package configs

import (
	"log"
	"os"
	"path/filepath"
)

// Settings holds filesystem locations resolved at startup.
type Settings struct {
	// ConfigPath is the directory holding config.toml.
	ConfigPath string
}

// VaultSettings is resolved once at startup. Tests may replace it to
// point at a temp directory.
var VaultSettings *Settings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	VaultSettings = &Settings{
		ConfigPath: filepath.Join(configDir, "voidvault"),
	}
}
