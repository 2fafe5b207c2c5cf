// Package geometry implements the deterministic derivation engine at the
// heart of Void Vault.
//
// An Engine owns a procedurally generated structure: a set of active
// integer-coordinate points in N-dimensional space, plus a mapping from
// input character codes to fixed anchor points. A continuous cursor walks
// through that space; every keystroke moves the cursor and samples output
// characters along the traveled segment.
//
// # Determinism
//
// Everything is driven by one 64-bit linear congruential stream. The same
// seed, alphabet, and setup phrase always produce the same structure, and
// the same cursor state plus input codes always produce the same output
// characters. This is the interoperability contract: serialized engines
// must keep reproducing identical output after decode.
//
// # State and resets
//
// Transform mutates the cursor and the path-memory byte as side effects,
// so re-deriving the same output requires re-synchronizing first:
// ResetPosition zeroes only path memory, FullReset also returns the cursor
// to the origin. HashDomain is the exception: it saves and restores all
// live state around its own derivation, so it is pure.
//
// # Not a KDF
//
// The transform is not designed to resist offline brute force
// analytically. Its security property is an unknown per-user structure
// combined with a secret phrase, not proven hardness.
package geometry
