package utils

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// EnterRawMode puts stdin into raw mode so single keystrokes are delivered
// without line buffering or echo. The returned restore function must be
// called before the process writes normal line-oriented output again.
func EnterRawMode() (restore func(), err error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot enter raw mode: stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	return func() {
		_ = term.Restore(fd, oldState)
	}, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StdinIsPipe returns true when stdin is a pipe or redirection rather than
// an interactive terminal. Browsers launch native-messaging hosts with a
// pipe on stdin, so this drives the automatic bridge-mode detection.
func StdinIsPipe() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
