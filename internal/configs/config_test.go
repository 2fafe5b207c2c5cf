package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// tempSettings points VaultSettings at a temp directory for one test.
func tempSettings(t *testing.T) {
	t.Helper()
	saved := VaultSettings
	VaultSettings = &Settings{ConfigPath: t.TempDir()}
	t.Cleanup(func() { VaultSettings = saved })
}

func TestLoadConfigDefaults(t *testing.T) {
	tempSettings(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Setup.Dimensions != 7 {
		t.Errorf("Dimensions = %d, want 7", config.Setup.Dimensions)
	}
	if config.Setup.ExtraChars != 7 {
		t.Errorf("ExtraChars = %d, want 7", config.Setup.ExtraChars)
	}
	if config.DefaultProfile != "" {
		t.Errorf("DefaultProfile = %q, want empty", config.DefaultProfile)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	tempSettings(t)

	original := DefaultConfig()
	original.DefaultProfile = "laptop"
	original.BinaryPath = "/tmp/voidvault-debug"
	original.Setup.Dimensions = 5

	if err := SaveConfig(original); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DefaultProfile != "laptop" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "laptop")
	}
	if loaded.BinaryPath != original.BinaryPath {
		t.Errorf("BinaryPath = %q, want %q", loaded.BinaryPath, original.BinaryPath)
	}
	if loaded.Setup.Dimensions != 5 {
		t.Errorf("Dimensions = %d, want 5", loaded.Setup.Dimensions)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	tempSettings(t)

	path := filepath.Join(VaultSettings.ConfigPath, "config.toml")
	if err := os.WriteFile(path, []byte("default_profile = [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("malformed config.toml loaded without error")
	}
	if !strings.Contains(err.Error(), "config.toml") {
		t.Errorf("error %q does not name the config file", err)
	}
}

func TestLoadConfigClampsSetupParameters(t *testing.T) {
	tempSettings(t)

	path := filepath.Join(VaultSettings.ConfigPath, "config.toml")
	contents := "[setup]\ndimensions = -3\nextra_chars = -1\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Setup.Dimensions != 7 {
		t.Errorf("Dimensions = %d, want clamped 7", config.Setup.Dimensions)
	}
	if config.Setup.ExtraChars != 7 {
		t.Errorf("ExtraChars = %d, want clamped 7", config.Setup.ExtraChars)
	}
}
