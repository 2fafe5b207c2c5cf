// Package logger provides leveled logging for Void Vault CLI commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors always print to stderr, which keeps them out of the
// derivation output on stdout. That separation matters here: several modes
// stream derived password characters to stdout, and a warning interleaved
// into that stream would corrupt what the caller captures.
//
// Commands construct a logger in their PersistentPreRun and pass it down
// to internal packages.
package logger
