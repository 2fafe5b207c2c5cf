// Package configs manages ambient user configuration for Void Vault.
//
// Configuration is stored in TOML format at os.UserConfigDir()/voidvault/
// config.toml. It holds only preferences:
//
//   - Default profile name used when --account is not given
//   - Setup parameters (dimensions, extra output characters)
//   - Optional managed-binary path override for development builds
//
// The credential profiles and the per-domain counter table are NOT stored
// here. They are embedded inside the executable itself by the binstore
// package; a copy of the binary is a complete backup.
//
// A missing config file yields defaults. A malformed one is an error,
// because a half-read BinaryPath override could point a self-rewrite at
// the wrong file.
package configs
