package geometry

import "math"

// Default movement parameters. Stored structures may carry their own values;
// these apply to freshly generated engines and to payloads old enough to
// predate the fields.
const (
	DefaultBaseStep     = 3.0
	DefaultStepVariance = 2.0
	boundsBase          = 30
	boundsPadding       = 10.0
)

// domainHashSeed replaces the engine seed while HashDomain derives a
// fingerprint, so fingerprints never reveal anything about the real seed's
// derivation stream beyond the transform itself.
const domainHashSeed uint64 = 0x444F4D41494E5F48

// Engine is a deterministic character-transformation engine backed by a
// procedurally generated N-dimensional structure.
type Engine struct {
	dimensions int
	rangeBound int32
	seed       uint64
	name       string

	alphabet []uint32
	active   *PointSet
	anchors  map[uint32]Point

	cursor     Position
	minBounds  []float64
	maxBounds  []float64
	baseStep   float64
	variance   float64
	pathMemory uint8
}

// New returns an engine with an empty structure. Generate populates it.
func New(dimensions int, rangeBound int32, seed uint64) *Engine {
	engine := &Engine{
		dimensions: dimensions,
		rangeBound: rangeBound,
		seed:       seed,
		active:     NewPointSet(),
		anchors:    make(map[uint32]Point),
		cursor:     NewPosition(dimensions),
		minBounds:  make([]float64, dimensions),
		maxBounds:  make([]float64, dimensions),
		baseStep:   DefaultBaseStep,
		variance:   DefaultStepVariance,
	}

	for i := 0; i < dimensions; i++ {
		engine.minBounds[i] = -boundsBase
		engine.maxBounds[i] = boundsBase
	}

	return engine
}

// Name returns the engine's display name.
func (e *Engine) Name() string { return e.name }

// SetName sets the engine's display name.
func (e *Engine) SetName(name string) { e.name = name }

// Dimensions returns the structure's dimensionality.
func (e *Engine) Dimensions() int { return e.dimensions }

// Seed returns the structure seed.
func (e *Engine) Seed() uint64 { return e.seed }

// Alphabet returns the engine's output alphabet.
func (e *Engine) Alphabet() []uint32 { return e.alphabet }

// ActivePoints returns the number of points in the generated structure.
func (e *Engine) ActivePoints() int { return e.active.Len() }

// Generate builds the structure from a setup phrase. Every alphabet code
// gets a fixed anchor point regardless of the phrase; a non-empty phrase
// carves linked paths and features between the anchors it visits, while an
// empty phrase falls back to a generic chained layout.
func (e *Engine) Generate(phrase []uint32, alphabet []uint32) {
	e.alphabet = append([]uint32(nil), alphabet...)

	origin := NewPoint(e.dimensions)
	e.active.Add(origin)

	for _, code := range alphabet {
		anchor := PointFromSeed(e.seed^uint64(code), e.dimensions, e.rangeBound)
		e.anchors[code] = anchor
	}

	if len(phrase) > 0 {
		current := origin
		for i, code := range phrase {
			anchor, ok := e.anchors[code]
			if !ok {
				anchor = PointFromSeed(e.seed^uint64(code), e.dimensions, e.rangeBound)
				e.anchors[code] = anchor
			}
			e.linkPath(current, anchor)
			if i < len(phrase)-1 {
				e.stampFeature(anchor, code, uint64(i))
			}
			current = anchor
		}
	} else {
		e.buildFallback(alphabet)
	}

	e.computeBounds()
}

// computeBounds derives the reflection box from the active points, padded so
// the cursor has room to move past the outermost point.
func (e *Engine) computeBounds() {
	if e.active.Len() == 0 {
		return
	}

	for i := 0; i < e.dimensions; i++ {
		e.minBounds[i] = math.Inf(1)
		e.maxBounds[i] = math.Inf(-1)
	}

	for _, point := range e.active.Points() {
		for i, coord := range point.Coords {
			value := float64(coord)
			if value < e.minBounds[i] {
				e.minBounds[i] = value
			}
			if value > e.maxBounds[i] {
				e.maxBounds[i] = value
			}
		}
	}

	for i := 0; i < e.dimensions; i++ {
		e.minBounds[i] -= boundsPadding
		e.maxBounds[i] += boundsPadding
	}
}

// Transform moves the cursor in response to one input code and returns the
// output character codes sampled along the traveled segment. extra is how
// many characters beyond the primary one to emit.
func (e *Engine) Transform(code uint32, extra int) []uint32 {
	posHash := e.cursor.Hash(e.seed)
	moveSeed := e.seed ^ posHash ^ uint64(code)

	// Direction: one draw per dimension, then normalize.
	direction := make([]float64, e.dimensions)
	state := moveSeed
	for i := range direction {
		state = lcgNext(state)
		direction[i] = unitDraw(state)
	}
	magnitude := 0.0
	for _, d := range direction {
		magnitude += d * d
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range direction {
			direction[i] /= magnitude
		}
	}

	distState := lcgNext(moveSeed)
	distance := e.baseStep + unitDraw(distState)*e.variance

	start := e.cursor.Clone()

	// Move, reflecting once off each boundary.
	for i := range e.cursor.Coords {
		next := e.cursor.Coords[i] + direction[i]*distance
		e.cursor.Coords[i] = reflectCoord(next, e.minBounds[i], e.maxBounds[i])
	}

	var coordSum int64
	for _, coord := range e.cursor.Coords {
		coordSum += int64(coord)
	}
	e.pathMemory += uint8(coordSum)

	total := extra + 1
	output := make([]uint32, 0, total)
	sample := NewPosition(e.dimensions)
	for i := 0; i < total; i++ {
		fraction := float64(i) / float64(total)
		for d := 0; d < e.dimensions; d++ {
			sample.Coords[d] = start.Coords[d] + direction[d]*distance*fraction
		}
		output = append(output, e.sampleChar(sample))
	}

	return output
}

// reflectCoord bounces a candidate coordinate off the box once: overshoot
// past a bound lands as far inside as it traveled past. It does not repeat,
// so a candidate more than a full span out can still land outside.
func reflectCoord(next, min, max float64) float64 {
	if next < min {
		return min + (min - next)
	}
	if next > max {
		return max - (next - max)
	}
	return next
}

// sampleChar maps one sampled cursor position onto an alphabet character.
// The path-memory parity nudges the pick one slot forward or back, so the
// same position yields different characters depending on travel history.
func (e *Engine) sampleChar(sample Position) uint32 {
	n := len(e.alphabet)
	if n == 0 {
		return 0
	}

	charSeed := sample.Hash(e.seed)
	base := int(charSeed % uint64(n))

	var index int
	if e.pathMemory%2 == 0 {
		index = (base + 1) % n
	} else {
		index = (base + n - 1) % n
	}
	return e.alphabet[index]
}

// ResetPosition zeroes path memory. The cursor stays where it is.
func (e *Engine) ResetPosition() {
	e.pathMemory = 0
}

// FullReset returns the cursor to the origin and zeroes path memory.
func (e *Engine) FullReset() {
	for i := range e.cursor.Coords {
		e.cursor.Coords[i] = 0
	}
	e.pathMemory = 0
}

// ApplyTiming perturbs the structure around a character's anchor based on
// typing rhythm. Codes with no anchor are ignored.
func (e *Engine) ApplyTiming(code uint32, timingMs uint64, timestamp uint64) {
	anchor, ok := e.anchors[code]
	if !ok {
		return
	}

	modSeed := e.seed ^ uint64(code) ^ timingMs ^ (timestamp % 1000)
	forward := timingMs%2 == 0

	perturbed := anchor.Clone()
	for dim := range perturbed.Coords {
		modifier := int32((timingMs+uint64(dim))%5) - 2
		if forward {
			perturbed.Coords[dim] += modifier
		} else {
			perturbed.Coords[dim] -= modifier
		}
	}
	e.active.Add(perturbed)

	switch modSeed % 3 {
	case 0:
		e.featureBlob(perturbed, modSeed, 3)
	case 1:
		e.featureSpike(perturbed, modSeed, 3)
	default:
		e.featureScatter(perturbed, modSeed, 3)
	}
}

// HashDomain derives a 64-byte fingerprint from a domain name. It runs the
// ordinary transform under a fixed fingerprint seed, saving and restoring
// all live state around the derivation so callers observe no side effects.
func (e *Engine) HashDomain(domain string) [64]byte {
	savedCursor := e.cursor.Clone()
	savedSeed := e.seed
	savedMemory := e.pathMemory

	e.seed = domainHashSeed
	e.FullReset()

	var fingerprint [64]byte
	filled := 0

	for _, r := range domain {
		if filled >= len(fingerprint) {
			break
		}
		for _, out := range e.Transform(uint32(r), 7) {
			if filled >= len(fingerprint) {
				break
			}
			fingerprint[filled] = byte(out % 256)
			filled++
		}
	}
	for filled < len(fingerprint) {
		for _, out := range e.Transform(0, 7) {
			if filled >= len(fingerprint) {
				break
			}
			fingerprint[filled] = byte(out % 256)
			filled++
		}
	}

	e.cursor = savedCursor
	e.seed = savedSeed
	e.pathMemory = savedMemory

	return fingerprint
}
