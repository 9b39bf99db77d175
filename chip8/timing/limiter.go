package timing

import (
	"time"

	"github.com/valerio/go-chip8/chip8/addr"
)

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the frame rate, one frame per timer tick.
func TargetFPS() float64 {
	return float64(addr.TimerHz)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / addr.TimerHz
}

// InstructionsPerFrame splits an instruction clock into whole instructions
// per frame. The carry is the leftover to pass to the next call, so that
// over TimerHz frames exactly clockHz instructions run. Clocks slower than
// the timer still run one instruction per frame.
func InstructionsPerFrame(clockHz, carry int) (count, nextCarry int) {
	total := clockHz + carry
	count = total / addr.TimerHz
	nextCarry = total % addr.TimerHz
	if count < 1 {
		return 1, 0
	}
	return count, nextCarry
}
