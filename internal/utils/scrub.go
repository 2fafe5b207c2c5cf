package utils

import "github.com/awnumar/memguard"

// ScrubBytes zeroes a buffer that held raw keystroke codes or feedback
// bytes. Call it on scope exit for every transient buffer of that kind.
// The guarantee is best-effort once the runtime may have copied the data,
// but it keeps the obvious copies out of a heap dump.
func ScrubBytes(b []byte) {
	memguard.WipeBytes(b)
}

// ScrubCodes zeroes a slice of input character codes.
func ScrubCodes(codes []uint32) {
	for i := range codes {
		codes[i] = 0
	}
}
