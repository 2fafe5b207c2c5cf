package domains

import (
	"encoding/binary"

	"github.com/starwell-project/voidvault/internal/errors"
)

const (
	// SlotCount is the fixed capacity of the table.
	SlotCount = 512

	// FingerprintSize is the byte length of a domain fingerprint.
	FingerprintSize = 64

	// slotSize is fingerprint + counter + max length + character classes.
	slotSize = FingerprintSize + 2 + 2 + 1

	// TableSize is the serialized size of the whole table.
	TableSize = SlotCount * slotSize

	// DefaultCharTypes allows every character class.
	DefaultCharTypes = 127
)

// Fingerprint identifies a domain without revealing its name.
type Fingerprint [FingerprintSize]byte

// IsZero reports whether the fingerprint marks a free slot.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Slot is one table entry.
type Slot struct {
	Fingerprint Fingerprint
	Counter     uint16
	MaxLength   uint16
	CharTypes   uint8
}

// Table is the fixed-capacity domain counter table.
type Table struct {
	slots [SlotCount]Slot
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) find(fp Fingerprint) int {
	for i := range t.slots {
		if !t.slots[i].Fingerprint.IsZero() && t.slots[i].Fingerprint == fp {
			return i
		}
	}
	return -1
}

// Counter returns the counter for a domain and whether the domain is known.
func (t *Table) Counter(fp Fingerprint) (uint16, bool) {
	if i := t.find(fp); i >= 0 {
		return t.slots[i].Counter, true
	}
	return 0, false
}

// SetCounter sets the counter for a domain, claiming a free slot for an
// unknown one. New slots start with default rules.
func (t *Table) SetCounter(fp Fingerprint, counter uint16) error {
	if i := t.find(fp); i >= 0 {
		t.slots[i].Counter = counter
		return nil
	}

	for i := range t.slots {
		if t.slots[i].Fingerprint.IsZero() {
			t.slots[i] = Slot{
				Fingerprint: fp,
				Counter:     counter,
				CharTypes:   DefaultCharTypes,
			}
			return nil
		}
	}
	return errors.ErrTableFull
}

// Increment bumps a domain's counter by one, saturating at the maximum. An
// unknown domain is treated as counter zero, so its first increment yields
// one.
func (t *Table) Increment(fp Fingerprint) (uint16, error) {
	counter, _ := t.Counter(fp)
	if counter < ^uint16(0) {
		counter++
	}
	if err := t.SetCounter(fp, counter); err != nil {
		return 0, err
	}
	return counter, nil
}

// Rules returns a domain's password rules. Unknown domains get the
// defaults: no length cap and every character class allowed.
func (t *Table) Rules(fp Fingerprint) (maxLength uint16, charTypes uint8) {
	if i := t.find(fp); i >= 0 {
		return t.slots[i].MaxLength, t.slots[i].CharTypes
	}
	return 0, DefaultCharTypes
}

// SetRules sets a domain's password rules, claiming a free slot for an
// unknown domain.
func (t *Table) SetRules(fp Fingerprint, maxLength uint16, charTypes uint8) error {
	if i := t.find(fp); i >= 0 {
		t.slots[i].MaxLength = maxLength
		t.slots[i].CharTypes = charTypes
		return nil
	}

	for i := range t.slots {
		if t.slots[i].Fingerprint.IsZero() {
			t.slots[i] = Slot{
				Fingerprint: fp,
				MaxLength:   maxLength,
				CharTypes:   charTypes,
			}
			return nil
		}
	}
	return errors.ErrTableFull
}

// Occupied returns every claimed slot in table order.
func (t *Table) Occupied() []Slot {
	var occupied []Slot
	for i := range t.slots {
		if !t.slots[i].Fingerprint.IsZero() {
			occupied = append(occupied, t.slots[i])
		}
	}
	return occupied
}

// MarshalBinary serializes the table into its fixed-size block.
func (t *Table) MarshalBinary() []byte {
	out := make([]byte, TableSize)
	for i := range t.slots {
		base := i * slotSize
		copy(out[base:], t.slots[i].Fingerprint[:])
		binary.LittleEndian.PutUint16(out[base+FingerprintSize:], t.slots[i].Counter)
		binary.LittleEndian.PutUint16(out[base+FingerprintSize+2:], t.slots[i].MaxLength)
		out[base+FingerprintSize+4] = t.slots[i].CharTypes
	}
	return out
}

// UnmarshalBinary loads the table from its fixed-size block.
func (t *Table) UnmarshalBinary(data []byte) error {
	if len(data) != TableSize {
		return errors.ErrTruncatedData
	}
	for i := range t.slots {
		base := i * slotSize
		copy(t.slots[i].Fingerprint[:], data[base:base+FingerprintSize])
		t.slots[i].Counter = binary.LittleEndian.Uint16(data[base+FingerprintSize:])
		t.slots[i].MaxLength = binary.LittleEndian.Uint16(data[base+FingerprintSize+2:])
		t.slots[i].CharTypes = data[base+FingerprintSize+4]
	}
	return nil
}
