// Package domains maintains the per-domain counter table.
//
// Each domain is identified by a 64-byte fingerprint derived from its name
// by the active engine, never by the name itself; the table leaks no domain
// names. A slot carries a rotation counter plus per-domain password rules
// (maximum length and an allowed-character-class bitmask). Bumping the
// counter rotates every credential derived for that domain without touching
// the stored structure.
//
// The table is a fixed 512-slot array so it serializes to a constant-size
// block inside the executable's storage region. A slot whose fingerprint is
// all zeros is free.
package domains
