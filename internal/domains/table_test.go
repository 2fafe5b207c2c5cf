package domains

import (
	"bytes"
	"testing"

	"github.com/starwell-project/voidvault/internal/errors"
)

func fp(seed byte) Fingerprint {
	var f Fingerprint
	for i := range f {
		f[i] = seed + byte(i)
	}
	return f
}

func TestCounterUnknownDomain(t *testing.T) {
	table := NewTable()

	if _, known := table.Counter(fp(1)); known {
		t.Error("unknown domain reported as known")
	}
}

func TestSetCounterAndGet(t *testing.T) {
	table := NewTable()

	if err := table.SetCounter(fp(1), 7); err != nil {
		t.Fatalf("SetCounter failed: %v", err)
	}

	counter, known := table.Counter(fp(1))
	if !known {
		t.Fatal("domain not found after SetCounter")
	}
	if counter != 7 {
		t.Errorf("counter = %d, want 7", counter)
	}

	// Updating an existing domain must not claim a second slot.
	if err := table.SetCounter(fp(1), 8); err != nil {
		t.Fatal(err)
	}
	if got := len(table.Occupied()); got != 1 {
		t.Errorf("occupied slots = %d, want 1", got)
	}
}

func TestIncrement(t *testing.T) {
	table := NewTable()

	// Unknown domains count from zero.
	counter, err := table.Increment(fp(1))
	if err != nil {
		t.Fatal(err)
	}
	if counter != 1 {
		t.Errorf("first increment = %d, want 1", counter)
	}

	counter, err = table.Increment(fp(1))
	if err != nil {
		t.Fatal(err)
	}
	if counter != 2 {
		t.Errorf("second increment = %d, want 2", counter)
	}
}

func TestIncrementSaturates(t *testing.T) {
	table := NewTable()
	if err := table.SetCounter(fp(1), 65535); err != nil {
		t.Fatal(err)
	}

	counter, err := table.Increment(fp(1))
	if err != nil {
		t.Fatal(err)
	}
	if counter != 65535 {
		t.Errorf("counter wrapped to %d, want saturation at 65535", counter)
	}
}

func TestRulesDefaults(t *testing.T) {
	table := NewTable()

	maxLength, charTypes := table.Rules(fp(1))
	if maxLength != 0 {
		t.Errorf("default maxLength = %d, want 0", maxLength)
	}
	if charTypes != DefaultCharTypes {
		t.Errorf("default charTypes = %d, want %d", charTypes, DefaultCharTypes)
	}
}

func TestSetRules(t *testing.T) {
	table := NewTable()

	if err := table.SetRules(fp(1), 20, 3); err != nil {
		t.Fatal(err)
	}
	maxLength, charTypes := table.Rules(fp(1))
	if maxLength != 20 || charTypes != 3 {
		t.Errorf("rules = (%d, %d), want (20, 3)", maxLength, charTypes)
	}

	// Rules and counter share the slot.
	if err := table.SetCounter(fp(1), 5); err != nil {
		t.Fatal(err)
	}
	if got := len(table.Occupied()); got != 1 {
		t.Errorf("occupied slots = %d, want 1", got)
	}
	maxLength, charTypes = table.Rules(fp(1))
	if maxLength != 20 || charTypes != 3 {
		t.Error("SetCounter clobbered existing rules")
	}
}

func TestTableCapacity(t *testing.T) {
	table := NewTable()

	for i := 0; i < SlotCount; i++ {
		var f Fingerprint
		f[0] = byte(i)
		f[1] = byte(i >> 8)
		f[2] = 1
		if err := table.SetCounter(f, uint16(i)); err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
	}

	var overflow Fingerprint
	overflow[3] = 0xFF
	if err := table.SetCounter(overflow, 1); err != errors.ErrTableFull {
		t.Errorf("got %v, want ErrTableFull", err)
	}

	// Existing domains are still updatable when the table is full.
	var existing Fingerprint
	existing[0] = 5
	existing[2] = 1
	if err := table.SetCounter(existing, 99); err != nil {
		t.Errorf("updating existing domain in a full table failed: %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	table := NewTable()
	if err := table.SetCounter(fp(1), 7); err != nil {
		t.Fatal(err)
	}
	if err := table.SetRules(fp(2), 16, 5); err != nil {
		t.Fatal(err)
	}

	data := table.MarshalBinary()
	if len(data) != TableSize {
		t.Fatalf("marshaled size = %d, want %d", len(data), TableSize)
	}

	loaded := NewTable()
	if err := loaded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	counter, known := loaded.Counter(fp(1))
	if !known || counter != 7 {
		t.Errorf("counter = (%d, %v), want (7, true)", counter, known)
	}
	maxLength, charTypes := loaded.Rules(fp(2))
	if maxLength != 16 || charTypes != 5 {
		t.Errorf("rules = (%d, %d), want (16, 5)", maxLength, charTypes)
	}

	if !bytes.Equal(loaded.MarshalBinary(), data) {
		t.Error("re-marshaling changed the bytes")
	}
}

func TestUnmarshalWrongSize(t *testing.T) {
	if err := NewTable().UnmarshalBinary(make([]byte, TableSize-1)); err != errors.ErrTruncatedData {
		t.Errorf("got %v, want ErrTruncatedData", err)
	}
}

func TestZeroFingerprintNeverMatches(t *testing.T) {
	table := NewTable()

	var zero Fingerprint
	if _, known := table.Counter(zero); known {
		t.Error("all-zero fingerprint matched a free slot")
	}
}
