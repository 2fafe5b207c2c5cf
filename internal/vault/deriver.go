package vault

import (
	"github.com/starwell-project/voidvault/internal/geometry"
	"github.com/starwell-project/voidvault/internal/utils"
)

// Deriver runs keystrokes through an engine with the feedback chain
// applied. It is stateful: each keystroke leaves a feedback byte behind
// that shifts and prefixes every later derivation.
type Deriver struct {
	engine     *geometry.Engine
	extraChars int

	counterOffset uint32
	offsetActive  bool

	feedbacks []byte
}

// NewDeriver wraps an engine. extraChars is the profile's per-keystroke
// output width.
func NewDeriver(engine *geometry.Engine, extraChars int) *Deriver {
	return &Deriver{engine: engine, extraChars: extraChars}
}

// Engine returns the wrapped engine.
func (d *Deriver) Engine() *geometry.Engine { return d.engine }

// SetCounterOffset shifts every subsequent keycode by a domain counter, so
// bumping the counter rotates the derived credential.
func (d *Deriver) SetCounterOffset(counter uint16) {
	d.counterOffset = uint32(counter)
	d.offsetActive = true
}

// ClearCounterOffset removes the keycode shift.
func (d *Deriver) ClearCounterOffset() {
	d.counterOffset = 0
	d.offsetActive = false
}

// Derive processes one keystroke and returns every output character code it
// produced. The keycode is shifted by the counter offset and the sum of all
// prior feedback bytes, then navigated together with the prior feedbacks
// newest first, from a freshly zeroed path memory.
func (d *Deriver) Derive(keycode uint32) []uint32 {
	if d.offsetActive {
		keycode += d.counterOffset
	}

	var feedbackOffset uint32
	for _, fb := range d.feedbacks {
		feedbackOffset += uint32(fb)
	}

	sequence := make([]uint32, 0, len(d.feedbacks)+1)
	sequence = append(sequence, keycode+feedbackOffset)
	for i := len(d.feedbacks) - 1; i >= 0; i-- {
		sequence = append(sequence, uint32(d.feedbacks[i]))
	}

	d.engine.ResetPosition()

	var sum uint64
	var output []uint32
	for _, code := range sequence {
		for _, out := range d.engine.Transform(code, d.extraChars) {
			sum += uint64(out)
			output = append(output, out)
		}
	}

	d.feedbacks = append(d.feedbacks, byte(sum%256))

	return output
}

// Reset returns the engine to its origin state and discards accumulated
// feedback.
func (d *Deriver) Reset() {
	d.engine.FullReset()
	d.ClearFeedbacks()
}

// ClearFeedbacks discards accumulated feedback without touching the cursor.
func (d *Deriver) ClearFeedbacks() {
	utils.ScrubBytes(d.feedbacks)
	d.feedbacks = d.feedbacks[:0]
}

// Scrub wipes the feedback buffer. Call on exit from any input mode.
func (d *Deriver) Scrub() {
	utils.ScrubBytes(d.feedbacks)
	d.feedbacks = nil
}
