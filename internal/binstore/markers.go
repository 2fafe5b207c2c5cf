package binstore

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// tableMarker precedes the domain table inside the storage region. It is a
// fixed string so the table stays findable in a binary with no profiles.
var tableMarker = []byte("__DOMAIN_TABLE_START__")

// markerSet holds the camouflage markers that frame embedded profiles.
// They are derived from the executable's own header, so every build carries
// different markers and the storage region has no stable signature.
type markerSet struct {
	section []byte
	start   []byte
	end     []byte
	name    []byte
	desc    []byte
}

// Same stream constants as the derivation engine; the markers must come out
// identical every time they are derived from the same binary.
const (
	markerMultiplier uint64 = 6364136223846793005
	markerIncrement  uint64 = 1442695040888963407
)

// deriveMarkers reads the executable header and generates the marker set.
// Only the first KiB is hashed: the header never changes when the storage
// region at the end of the file does.
func deriveMarkers(executablePath string) (markerSet, error) {
	header := make([]byte, 1024)
	file, err := os.Open(executablePath)
	if err != nil {
		return markerSet{}, err
	}
	n, err := io.ReadFull(file, header)
	file.Close()
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return markerSet{}, err
	}

	state := xxhash.Sum64(header[:n])

	generate := func(prefix []byte, length int) []byte {
		marker := make([]byte, 0, len(prefix)+length+1)
		marker = append(marker, prefix...)
		for i := 0; i < length; i++ {
			state = state*markerMultiplier + markerIncrement
			marker = append(marker, byte(state%255))
		}
		marker = append(marker, 0)
		return marker
	}

	return markerSet{
		section: generate([]byte("\x00SM"), 24),
		start:   generate([]byte("\x00ST"), 16),
		end:     generate([]byte("\x00EN"), 16),
		name:    generate([]byte("\x00NM"), 8),
		desc:    generate([]byte("\x00DS"), 8),
	}, nil
}
