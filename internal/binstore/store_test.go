package binstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/starwell-project/voidvault/internal/errors"
	logger "github.com/starwell-project/voidvault/internal/logging"
)

const testTableSize = 128

func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voidvault")

	// A recognizable prefix standing in for the real executable image.
	prefix := make([]byte, 2048)
	for i := range prefix {
		prefix[i] = byte(i * 7)
	}
	if err := os.WriteFile(path, prefix, 0o755); err != nil {
		t.Fatalf("writing fake binary: %v", err)
	}
	return path
}

func openStore(t *testing.T, path string, notify func()) *Store {
	t.Helper()
	store, err := Open(path, testTableSize, logger.Logger{}, notify)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store
}

func TestOpenBootstrapsRegion(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	if got := store.Entries(); len(got) != 0 {
		t.Errorf("fresh store has %d entries, want 0", len(got))
	}

	table := store.Table()
	if len(table) != testTableSize {
		t.Fatalf("table is %d bytes, want %d", len(table), testTableSize)
	}
	for i, b := range table {
		if b != 0 {
			t.Fatalf("fresh table byte %d is %d, want 0", i, b)
		}
	}

	// The original executable image must survive at the front of the file.
	buffer, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading binary: %v", err)
	}
	if buffer[0] != 0 || buffer[7] != byte(7*7) {
		t.Error("bootstrap corrupted the executable prefix")
	}
	if !bytes.Contains(buffer, tableMarker) {
		t.Error("bootstrap did not embed the table marker")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := fakeBinary(t)
	openStore(t, path, nil)

	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	openStore(t, path, nil)

	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("reopening an initialized binary rewrote it")
	}
}

func TestPutAndReopen(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}
	if err := store.Put("laptop", "primary machine", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	reopened := openStore(t, path, nil)
	entry, err := reopened.Get("laptop")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if entry.Description != "primary machine" {
		t.Errorf("description = %q, want %q", entry.Description, "primary machine")
	}
	if !bytes.Equal(entry.Payload, payload) {
		t.Errorf("payload = %v, want %v", entry.Payload, payload)
	}
}

func TestPutReplacesExisting(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	if err := store.Put("laptop", "old", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("laptop", "new", []byte{2, 3}); err != nil {
		t.Fatal(err)
	}

	reopened := openStore(t, path, nil)
	entries := reopened.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Description != "new" || !bytes.Equal(entries[0].Payload, []byte{2, 3}) {
		t.Errorf("entry not replaced: %+v", entries[0])
	}
}

func TestEntriesSortedByName(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	for _, name := range []string{"zebra", "alpha", "mango"} {
		if err := store.Put(name, "", []byte(name)); err != nil {
			t.Fatal(err)
		}
	}

	entries := openStore(t, path, nil).Entries()
	want := []string{"alpha", "mango", "zebra"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestPutValidation(t *testing.T) {
	store := openStore(t, fakeBinary(t), nil)

	if err := store.Put("empty", "", nil); err != errors.ErrEmptyPayload {
		t.Errorf("empty payload: got %v, want ErrEmptyPayload", err)
	}
	if err := store.Put("huge", "", make([]byte, maxPayloadSize+1)); err != errors.ErrPayloadTooLarge {
		t.Errorf("oversized payload: got %v, want ErrPayloadTooLarge", err)
	}
}

func TestGetMissing(t *testing.T) {
	store := openStore(t, fakeBinary(t), nil)

	if _, err := store.Get("nothing"); err != errors.ErrProfileNotFound {
		t.Errorf("got %v, want ErrProfileNotFound", err)
	}
}

func TestSetTablePersists(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	table := make([]byte, testTableSize)
	for i := range table {
		table[i] = byte(i)
	}
	if err := store.SetTable(table); err != nil {
		t.Fatalf("SetTable failed: %v", err)
	}

	got := openStore(t, path, nil).Table()
	if !bytes.Equal(got, table) {
		t.Error("table did not survive reopen")
	}
}

func TestSetTableWrongSize(t *testing.T) {
	store := openStore(t, fakeBinary(t), nil)

	if err := store.SetTable(make([]byte, testTableSize-1)); err != errors.ErrTruncatedData {
		t.Errorf("got %v, want ErrTruncatedData", err)
	}
}

func TestRewriteLeavesBackup(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	if err := store.Put("laptop", "", []byte{1}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("no .bak after rewrite: %v", err)
	}
}

func TestNotifyFiresOnRewrite(t *testing.T) {
	path := fakeBinary(t)

	calls := 0
	store := openStore(t, path, func() { calls++ })

	// Open bootstraps the region, which is itself a rewrite.
	if calls != 1 {
		t.Fatalf("notify fired %d times during bootstrap, want 1", calls)
	}

	if err := store.Put("laptop", "", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("notify fired %d times after Put, want 2", calls)
	}
}

func TestCorruptEntrySkipped(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	if err := store.Put("good", "intact", []byte{42}); err != nil {
		t.Fatal(err)
	}

	// Splice a mangled entry in front of the good one: its name bytes are
	// not valid UTF-8.
	buffer, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	start := store.regionStart(buffer)

	corrupt := append([]byte{}, buffer[:start]...)
	corrupt = append(corrupt, store.markers.start...)
	corrupt = append(corrupt, store.markers.name...)
	corrupt = append(corrupt, 0xFF, 0xFE, 0x00)
	corrupt = append(corrupt, buffer[start:]...)
	if err := os.WriteFile(path, corrupt, 0o755); err != nil {
		t.Fatal(err)
	}

	reopened := openStore(t, path, nil)
	if _, err := reopened.Get("good"); err != nil {
		t.Errorf("intact entry lost after corruption: %v", err)
	}
	if got := len(reopened.Entries()); got != 1 {
		t.Errorf("got %d entries, want 1", got)
	}
}

func TestReloadDetectsMissingSection(t *testing.T) {
	path := fakeBinary(t)
	store := openStore(t, path, nil)

	// Chop the section marker off the end.
	buffer, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	trimmed := buffer[:len(buffer)-len(store.markers.section)]
	if err := os.WriteFile(path, trimmed, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := store.Reload(); err != errors.ErrNoStorageSection {
		t.Errorf("got %v, want ErrNoStorageSection", err)
	}
}
