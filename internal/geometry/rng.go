package geometry

import "math"

// Linear congruential constants shared by every deterministic stream in the
// engine (structure generation, movement, features, camouflage markers).
// Changing them breaks compatibility with every stored structure.
const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// lcgNext advances the stream by one draw.
func lcgNext(state uint64) uint64 {
	return state*lcgMultiplier + lcgIncrement
}

// unitDraw maps a stream state onto [-1, 1].
func unitDraw(state uint64) float64 {
	return float64(state)/float64(math.MaxUint64)*2.0 - 1.0
}
