package geometry

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/starwell-project/voidvault/internal/errors"
)

// Encode serializes the engine into the binary profile payload format. The
// output is byte-for-byte deterministic for a given engine state: points and
// anchors are emitted in sorted order.
func (e *Engine) Encode() []byte {
	buf := make([]byte, 0, 1024)

	buf = appendU32(buf, uint32(e.dimensions))
	buf = appendU32(buf, uint32(e.rangeBound))
	buf = appendU64(buf, e.seed)

	buf = appendU32(buf, uint32(len(e.name)))
	buf = append(buf, e.name...)

	buf = appendU32(buf, uint32(len(e.alphabet)))
	for _, code := range e.alphabet {
		buf = appendU32(buf, code)
	}

	points := e.active.Points()
	buf = appendU32(buf, uint32(len(points)))
	for _, point := range points {
		buf = appendPoint(buf, point)
	}

	codes := make([]uint32, 0, len(e.anchors))
	for code := range e.anchors {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	buf = appendU32(buf, uint32(len(codes)))
	for _, code := range codes {
		buf = appendU32(buf, code)
		buf = appendPoint(buf, e.anchors[code])
	}

	buf = appendU64(buf, math.Float64bits(e.baseStep))
	buf = appendU64(buf, math.Float64bits(e.variance))
	buf = append(buf, e.pathMemory)

	return buf
}

// Decode reconstructs an engine from its serialized payload. Payloads
// written before movement parameters or path memory existed decode with the
// defaults for those fields. The reflection bounds are always recomputed
// from the decoded points so encode/decode round-trips preserve output.
func Decode(data []byte) (*Engine, error) {
	d := decoder{data: data}

	dimensions, err := d.u32()
	if err != nil {
		return nil, err
	}
	rangeBound, err := d.u32()
	if err != nil {
		return nil, err
	}
	seed, err := d.u64()
	if err != nil {
		return nil, err
	}

	engine := New(int(dimensions), int32(rangeBound), seed)

	nameLen, err := d.u32()
	if err != nil {
		return nil, err
	}
	nameBytes, err := d.bytes(int(nameLen))
	if err != nil {
		return nil, err
	}
	engine.name = string(nameBytes)

	alphabetLen, err := d.u32()
	if err != nil {
		return nil, err
	}
	engine.alphabet = make([]uint32, alphabetLen)
	for i := range engine.alphabet {
		if engine.alphabet[i], err = d.u32(); err != nil {
			return nil, err
		}
	}

	activeCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < activeCount; i++ {
		point, err := d.point(int(dimensions))
		if err != nil {
			return nil, err
		}
		engine.active.Add(point)
	}

	anchorCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < anchorCount; i++ {
		code, err := d.u32()
		if err != nil {
			return nil, err
		}
		point, err := d.point(int(dimensions))
		if err != nil {
			return nil, err
		}
		engine.anchors[code] = point
	}

	// Movement parameters and path memory trail the payload. Older payloads
	// end here; keep the defaults for whatever is missing.
	if stepBits, err := d.u64(); err == nil {
		engine.baseStep = math.Float64frombits(stepBits)
		if varianceBits, err := d.u64(); err == nil {
			engine.variance = math.Float64frombits(varianceBits)
		}
	}
	if memory, err := d.byte(); err == nil {
		engine.pathMemory = memory
	}

	engine.computeBounds()

	return engine, nil
}

func appendU32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

func appendU64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func appendPoint(buf []byte, point Point) []byte {
	buf = appendU32(buf, uint32(len(point.Coords)))
	for _, coord := range point.Coords {
		buf = appendU32(buf, uint32(coord))
	}
	return buf
}

// decoder is a bounds-checked cursor over a payload.
type decoder struct {
	data   []byte
	offset int
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 || d.offset+n > len(d.data) {
		return nil, errors.ErrTruncatedData
	}
	out := d.data[d.offset : d.offset+n]
	d.offset += n
	return out, nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// point decodes one point and checks it against the engine's
// dimensionality. A mismatched coordinate count would index past the
// bounds slices later, so it is rejected here.
func (d *decoder) point(dims int) (Point, error) {
	count, err := d.u32()
	if err != nil {
		return Point{}, err
	}
	if int(count) != dims {
		return Point{}, errors.ErrDimensionMismatch
	}
	point := Point{Coords: make([]int32, count)}
	for i := range point.Coords {
		v, err := d.u32()
		if err != nil {
			return Point{}, err
		}
		point.Coords[i] = int32(v)
	}
	return point, nil
}
