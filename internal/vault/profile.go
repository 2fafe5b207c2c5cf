package vault

import (
	"encoding/binary"
	"time"
	"unicode/utf8"

	"github.com/starwell-project/voidvault/internal/errors"
	"github.com/starwell-project/voidvault/internal/geometry"
	logger "github.com/starwell-project/voidvault/internal/logging"
)

// legacyExtraChars is assumed for payloads written before the output width
// was serialized.
const legacyExtraChars = 3

// Profile is one stored credential configuration.
type Profile struct {
	Name        string
	Description string
	Created     time.Time
	ExtraChars  int
	Engine      *geometry.Engine
}

// Encode serializes the profile into the payload format embedded in the
// binary.
func (p *Profile) Encode() []byte {
	engineBytes := p.Engine.Encode()

	buf := make([]byte, 0, len(engineBytes)+len(p.Name)+len(p.Description)+24)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Name)))
	buf = append(buf, p.Name...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Description)))
	buf = append(buf, p.Description...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Created.Unix()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(p.ExtraChars))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(engineBytes)))
	buf = append(buf, engineBytes...)

	return buf
}

// DecodeProfile reconstructs a profile from its payload. Payloads that
// predate the output-width field decode with the legacy default.
func DecodeProfile(data []byte, log logger.Logger) (*Profile, error) {
	offset := 0

	readU32 := func() (uint32, bool) {
		if offset+4 > len(data) {
			return 0, false
		}
		v := binary.LittleEndian.Uint32(data[offset:])
		offset += 4
		return v, true
	}

	nameLen, ok := readU32()
	if !ok || offset+int(nameLen) > len(data) {
		return nil, errors.ErrTruncatedData
	}
	name := data[offset : offset+int(nameLen)]
	if !utf8.Valid(name) {
		return nil, errors.ErrInvalidUTF8
	}
	offset += int(nameLen)

	descLen, ok := readU32()
	if !ok || offset+int(descLen) > len(data) {
		return nil, errors.ErrTruncatedData
	}
	description := data[offset : offset+int(descLen)]
	if !utf8.Valid(description) {
		return nil, errors.ErrInvalidUTF8
	}
	offset += int(descLen)

	if offset+8 > len(data) {
		return nil, errors.ErrTruncatedData
	}
	created := binary.LittleEndian.Uint64(data[offset:])
	offset += 8

	extraChars := legacyExtraChars
	if v, ok := readU32(); ok {
		extraChars = int(v)
	} else {
		log.Warnf("profile %q has no output width; assuming %d extra characters", string(name), legacyExtraChars)
	}

	engineLen, ok := readU32()
	if !ok || offset+int(engineLen) > len(data) {
		return nil, errors.ErrTruncatedData
	}
	engine, err := geometry.Decode(data[offset : offset+int(engineLen)])
	if err != nil {
		return nil, err
	}

	return &Profile{
		Name:        string(name),
		Description: string(description),
		Created:     time.Unix(int64(created), 0).UTC(),
		ExtraChars:  extraChars,
		Engine:      engine,
	}, nil
}
