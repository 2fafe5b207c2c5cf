// Package vault manages credential profiles and runs derivations against
// them.
//
// A profile bundles a named derivation engine with its creation date and
// per-keystroke output width. Profiles serialize to opaque payloads stored
// by the binstore package; the Manager is the bridge between the two.
//
// The Deriver wraps an engine with the feedback chain used by every input
// mode: each keystroke's output folds into a feedback byte that offsets and
// precedes all later keystrokes, so a credential depends on the whole input
// sequence, not just the final character.
package vault
