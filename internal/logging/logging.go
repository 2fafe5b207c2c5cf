package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes leveled, colored output for voidvault commands. Info and
// debug lines go to stdout gated by their flags; warnings and errors always
// go to stderr, so derived credentials and bridge frames on stdout stay
// clean in the default quiet mode.
type Logger struct {
	Verbose bool
	Debug   bool
}

// Infof reports command progress. Shown with --verbose or --debug.
func (l Logger) Infof(format string, args ...any) {
	if l.Verbose || l.Debug {
		l.emit(os.Stdout, color.GreenString("[info] "), format, args...)
	}
}

// Debugf reports internal detail. Shown only with --debug.
func (l Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.emit(os.Stdout, color.CyanString("[debug] "), format, args...)
	}
}

// Warnf reports recoverable problems, such as a skipped corrupt profile or
// a failed domain-table save. Always shown.
func (l Logger) Warnf(format string, args ...any) {
	l.emit(os.Stderr, color.YellowString("[warn] "), format, args...)
}

// Errorf reports failures. Always shown.
func (l Logger) Errorf(format string, args ...any) {
	l.emit(os.Stderr, color.RedString("[error] "), format, args...)
}

func (l Logger) emit(w io.Writer, prefix, format string, args ...any) {
	fmt.Fprintf(w, prefix+format+"\n", args...)
}
