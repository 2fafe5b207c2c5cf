package geometry

import (
	"encoding/binary"
	"sort"
)

// Point is a discrete position in the structure. Points are compared by
// exact coordinate vector and act as set members; treat them as immutable
// once inserted.
type Point struct {
	Coords []int32
}

// NewPoint returns the origin point of the given dimensionality.
func NewPoint(dimensions int) Point {
	return Point{Coords: make([]int32, dimensions)}
}

// PointFromSeed derives a deterministic point with every coordinate in
// [-rangeBound, rangeBound).
func PointFromSeed(seed uint64, dimensions int, rangeBound int32) Point {
	point := NewPoint(dimensions)
	state := seed

	for i := 0; i < dimensions; i++ {
		state = lcgNext(state)
		point.Coords[i] = int32(state%uint64(rangeBound*2)) - rangeBound
	}

	return point
}

// Clone returns an independent copy.
func (p Point) Clone() Point {
	coords := make([]int32, len(p.Coords))
	copy(coords, p.Coords)
	return Point{Coords: coords}
}

// mapKey returns a byte-exact key for set membership.
func (p Point) mapKey() string {
	buf := make([]byte, 4*len(p.Coords))
	for i, c := range p.Coords {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(c))
	}
	return string(buf)
}

// PointSet is a set of points keyed by exact coordinate vector.
type PointSet struct {
	members map[string]Point
}

// NewPointSet returns an empty set.
func NewPointSet() *PointSet {
	return &PointSet{members: make(map[string]Point)}
}

// Add inserts a point; duplicates collapse.
func (s *PointSet) Add(p Point) {
	s.members[p.mapKey()] = p
}

// Contains reports membership.
func (s *PointSet) Contains(p Point) bool {
	_, ok := s.members[p.mapKey()]
	return ok
}

// Len returns the number of distinct points.
func (s *PointSet) Len() int {
	return len(s.members)
}

// Points returns the members in a deterministic (key-sorted) order, so
// encoders produce stable bytes for the same set.
func (s *PointSet) Points() []Point {
	keys := make([]string, 0, len(s.members))
	for k := range s.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		points = append(points, s.members[k])
	}
	return points
}

// Position is the continuous cursor. Exactly one lives inside each Engine.
type Position struct {
	Coords []float64
}

// NewPosition returns the origin cursor of the given dimensionality.
func NewPosition(dimensions int) Position {
	return Position{Coords: make([]float64, dimensions)}
}

// Clone returns an independent copy.
func (p Position) Clone() Position {
	coords := make([]float64, len(p.Coords))
	copy(coords, p.Coords)
	return Position{Coords: coords}
}

// Hash folds the cursor into a 64-bit value. Coordinates are fixed to
// millimeter-style precision (×1000, truncated) first so the hash is
// insensitive to sub-precision float noise.
func (p Position) Hash(seed uint64) uint64 {
	hash := seed
	for _, coord := range p.Coords {
		fixed := int64(coord * 1000.0)
		hash = hash*31 + uint64(fixed)
	}
	return hash
}
