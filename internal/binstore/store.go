package binstore

import (
	"bytes"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starwell-project/voidvault/internal/errors"
	logger "github.com/starwell-project/voidvault/internal/logging"
)

const (
	// maxPayloadSize bounds a single embedded profile. Anything larger is
	// treated as scan garbage, not data.
	maxPayloadSize = 10 * 1024 * 1024

	// searchWindow bounds the backward scan for the storage region. The
	// region always sits at the end of the file.
	searchWindow = 10 * 1024 * 1024
)

// Entry is one embedded profile: a name, a human-readable description, and
// an opaque payload.
type Entry struct {
	Name        string
	Description string
	Payload     []byte
}

// Store reads and rewrites the storage region of a managed executable.
type Store struct {
	path      string
	tableSize int
	log       logger.Logger
	notify    func()

	markers markerSet
	entries map[string]Entry
	table   []byte
}

// Open attaches to the executable at path, bootstrapping an empty storage
// region if none exists, and loads all embedded entries. tableSize is the
// exact byte size of the domain table. notify fires after every successful
// rewrite of the binary; it may be nil.
func Open(path string, tableSize int, log logger.Logger, notify func()) (*Store, error) {
	markers, err := deriveMarkers(path)
	if err != nil {
		return nil, err
	}

	store := &Store{
		path:      path,
		tableSize: tableSize,
		log:       log,
		notify:    notify,
		markers:   markers,
		entries:   make(map[string]Entry),
		table:     make([]byte, tableSize),
	}

	if err := store.ensureRegion(); err != nil {
		return nil, err
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}

	return store, nil
}

// Path returns the managed executable path.
func (s *Store) Path() string { return s.path }

// ensureRegion bootstraps the storage region when the binary does not end
// with the section marker. Fresh builds land here once.
func (s *Store) ensureRegion() error {
	buffer, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if hasSuffix(buffer, s.markers.section) {
		return nil
	}

	s.log.Infof("bootstrapping storage region in %s", s.path)

	region := make([]byte, 0, len(tableMarker)+s.tableSize+len(s.markers.section))
	region = append(region, tableMarker...)
	region = append(region, make([]byte, s.tableSize)...)
	region = append(region, s.markers.section...)

	return s.swap(append(buffer, region...))
}

// Reload re-reads the storage region from disk, replacing the in-memory
// entries and table.
func (s *Store) Reload() error {
	buffer, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	if !hasSuffix(buffer, s.markers.section) {
		return errors.ErrNoStorageSection
	}
	sectionStart := len(buffer) - len(s.markers.section)

	searchBegin := 0
	if sectionStart > searchWindow {
		searchBegin = sectionStart - searchWindow
	}

	tablePos := bytes.LastIndex(buffer[searchBegin:sectionStart], tableMarker)
	if tablePos < 0 {
		return errors.ErrTableMarkerNotFound
	}
	tablePos += searchBegin

	tableData := buffer[tablePos+len(tableMarker) : sectionStart]
	table := make([]byte, s.tableSize)
	if len(tableData) != s.tableSize {
		s.log.Warnf("domain table is %d bytes, expected %d; loading what fits", len(tableData), s.tableSize)
	}
	copy(table, tableData)

	s.entries = make(map[string]Entry)
	s.table = table
	s.scanEntries(buffer[searchBegin:tablePos])

	return nil
}

// scanEntries walks the profile area of the region, collecting well-formed
// entries and skipping corrupt ones with a warning. One damaged entry never
// takes down its neighbors.
func (s *Store) scanEntries(area []byte) {
	pos := 0
	for pos < len(area) {
		offset := bytes.Index(area[pos:], s.markers.start)
		if offset < 0 {
			return
		}
		startPos := pos + offset
		pos = startPos + len(s.markers.start)

		entry, ok := s.parseEntry(area, startPos)
		if ok {
			s.entries[entry.Name] = entry
		}
	}
}

func (s *Store) parseEntry(area []byte, startPos int) (Entry, bool) {
	cursor := startPos + len(s.markers.start)

	nameOffset := bytes.Index(area[cursor:], s.markers.name)
	if nameOffset < 0 {
		s.log.Warnf("entry at offset %d has no name marker; skipping", startPos)
		return Entry{}, false
	}
	nameStart := cursor + nameOffset + len(s.markers.name)

	nameEnd := bytes.IndexByte(area[nameStart:], 0)
	if nameEnd < 0 {
		s.log.Warnf("entry at offset %d has an unterminated name; skipping", startPos)
		return Entry{}, false
	}
	nameEnd += nameStart

	nameBytes := area[nameStart:nameEnd]
	if !utf8.Valid(nameBytes) {
		s.log.Warnf("entry at offset %d has a non-UTF-8 name; skipping", startPos)
		return Entry{}, false
	}
	name := strings.TrimSpace(string(nameBytes))

	dataStart := nameEnd + 1

	endOffset := bytes.Index(area[dataStart:], s.markers.end)
	if endOffset < 0 {
		s.log.Warnf("entry %q has no end marker; skipping", name)
		return Entry{}, false
	}
	dataEnd := dataStart + endOffset

	dataSize := dataEnd - dataStart
	if dataSize == 0 {
		s.log.Warnf("entry %q has an empty payload; skipping", name)
		return Entry{}, false
	}
	if dataSize > maxPayloadSize {
		s.log.Warnf("entry %q payload is %d bytes; skipping", name, dataSize)
		return Entry{}, false
	}

	descStart := dataEnd + len(s.markers.end)
	descOffset := bytes.Index(area[descStart:], s.markers.desc)
	if descOffset < 0 {
		s.log.Warnf("entry %q has no description marker; skipping", name)
		return Entry{}, false
	}
	descStart += descOffset + len(s.markers.desc)

	descEnd := bytes.IndexByte(area[descStart:], 0)
	if descEnd < 0 {
		s.log.Warnf("entry %q has an unterminated description; skipping", name)
		return Entry{}, false
	}
	descEnd += descStart

	descBytes := area[descStart:descEnd]
	if !utf8.Valid(descBytes) {
		s.log.Warnf("entry %q has a non-UTF-8 description; skipping", name)
		return Entry{}, false
	}

	payload := make([]byte, dataSize)
	copy(payload, area[dataStart:dataEnd])

	return Entry{
		Name:        name,
		Description: strings.TrimSpace(string(descBytes)),
		Payload:     payload,
	}, true
}

// Entries returns all embedded entries sorted by name.
func (s *Store) Entries() []Entry {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, s.entries[name])
	}
	return entries
}

// Get returns the entry with the given name.
func (s *Store) Get(name string) (Entry, error) {
	entry, ok := s.entries[name]
	if !ok {
		return Entry{}, errors.ErrProfileNotFound
	}
	return entry, nil
}

// Put inserts or replaces an entry and rewrites the binary.
func (s *Store) Put(name, description string, payload []byte) error {
	if len(payload) == 0 {
		return errors.ErrEmptyPayload
	}
	if len(payload) > maxPayloadSize {
		return errors.ErrPayloadTooLarge
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.entries[name] = Entry{Name: name, Description: description, Payload: stored}

	return s.rewrite()
}

// Table returns a copy of the domain table bytes.
func (s *Store) Table() []byte {
	table := make([]byte, len(s.table))
	copy(table, s.table)
	return table
}

// SetTable replaces the domain table and rewrites the binary.
func (s *Store) SetTable(table []byte) error {
	if len(table) != s.tableSize {
		return errors.ErrTruncatedData
	}
	stored := make([]byte, len(table))
	copy(stored, table)
	s.table = stored

	return s.rewrite()
}

// rewrite reassembles the storage region from the in-memory state and swaps
// the binary atomically.
func (s *Store) rewrite() error {
	buffer, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	prefix := buffer[:s.regionStart(buffer)]

	out := make([]byte, 0, len(prefix)+s.tableSize+4096)
	out = append(out, prefix...)

	for _, entry := range s.Entries() {
		out = append(out, s.markers.start...)
		out = append(out, s.markers.name...)
		out = append(out, entry.Name...)
		out = append(out, 0)
		out = append(out, entry.Payload...)
		out = append(out, s.markers.end...)
		out = append(out, s.markers.desc...)
		out = append(out, entry.Description...)
		out = append(out, 0)
	}

	out = append(out, tableMarker...)
	out = append(out, s.table...)
	out = append(out, s.markers.section...)

	return s.swap(out)
}

// regionStart finds where the storage region begins in the current file:
// the earliest embedded entry, or the table marker when no entries exist,
// or end of file when the region is missing entirely.
func (s *Store) regionStart(buffer []byte) int {
	if !hasSuffix(buffer, s.markers.section) {
		return len(buffer)
	}
	sectionStart := len(buffer) - len(s.markers.section)

	searchBegin := 0
	if sectionStart > searchWindow {
		searchBegin = sectionStart - searchWindow
	}

	tablePos := bytes.LastIndex(buffer[searchBegin:sectionStart], tableMarker)
	if tablePos < 0 {
		return sectionStart
	}
	tablePos += searchBegin

	firstEntry := bytes.Index(buffer[searchBegin:tablePos], s.markers.start)
	if firstEntry < 0 {
		return tablePos
	}
	return searchBegin + firstEntry
}

func hasSuffix(buffer, marker []byte) bool {
	return len(buffer) >= len(marker) && bytes.Equal(buffer[len(buffer)-len(marker):], marker)
}
