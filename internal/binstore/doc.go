// Package binstore embeds credential data inside the executable itself.
//
// The store appends a storage region to the end of the managed binary:
//
//	[executable] [profile entries...] [table marker] [domain table] [section marker]
//
// The section marker at EOF is the integrity check; the region between the
// earliest embedded entry and EOF is rewritten wholesale on every change.
// Profiles are framed with per-build camouflage markers derived from the
// executable header, so the region does not carry a recognizable signature
// across machines. The domain table marker is a fixed string because the
// table must be findable even when no profile exists.
//
// All mutation goes through an atomic temp-file swap: the new binary is
// written beside the original, the original is renamed to .bak, and the
// temp file takes its place. A notify callback fires after each successful
// swap so a supervising process can react to its child rewriting itself.
package binstore
