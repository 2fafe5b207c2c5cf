// Package session tracks the active domain during a bridge conversation.
//
// Activating a domain hashes its name into a fingerprint, resolves its
// rotation counter, and ghost-navigates the engine: the fingerprint bytes
// and counter-derived values are run through the transform without emitting
// output, so every domain+counter pair starts typing from its own unique
// cursor position.
//
// Preview mode lets a caller try the next counter value without persisting
// it: ActivatePreview navigates at counter+1, then CommitIncrement makes it
// permanent or CancelPreview returns to the saved counter.
//
// The session never learns domain names beyond hashing them; only
// fingerprints are compared and stored.
package session
