// Package supervisor runs the two-process model used for interactive
// sessions.
//
// The binary cannot safely rewrite itself while it is the running image, so
// the parent process spawns a child copy of itself to do the interactive
// work. The child inherits the terminal; two pipes carry control messages:
// the child reports ready, binary-updated, and shutdown events, and the
// parent acknowledges each rewrite so the child knows the new image is in
// place before continuing.
package supervisor
