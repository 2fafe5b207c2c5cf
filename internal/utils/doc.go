// Package utils provides shared helpers for the Void Vault application.
//
// # Terminal Utilities
//
// Functions for terminal detection and raw-mode keystroke input:
//   - EnterRawMode: unbuffered, unechoed single-keystroke input
//   - IsTerminal: checks whether stdin is a terminal
//   - StdinIsPipe: detects the browser native-messaging launch case
//
// # Buffer Hygiene
//
// Functions for scrubbing transient buffers that held raw keystrokes:
//   - ScrubBytes: zeroes a byte buffer via memguard
//   - ScrubCodes: zeroes a slice of input character codes
package utils
