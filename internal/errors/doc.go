// Package errors defines sentinel error values shared across Void Vault.
//
// Errors are grouped by category:
//
//   - Storage: the self-modifying binary store (missing markers, oversized
//     payloads). I/O failures from the storage layer are always propagated;
//     these sentinels cover structural problems in the embedded region.
//   - Codec: malformed serialized profiles or engines. Loaders recover from
//     these by skipping the offending entry.
//   - Capacity: the fixed 512-slot domain table is full.
//   - Session: protocol commands issued in an invalid session state. These
//     are answered over the wire, never treated as fatal.
//   - Vault: missing or unknown credential profiles.
//
// Callers wrap these with fmt.Errorf("...: %w", err) to add context and
// test with errors.Is.
package errors
