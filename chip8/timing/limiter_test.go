package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, 60.0, TargetFPS())
	assert.Equal(t, time.Second/60, FrameDuration())
}

func TestInstructionsPerFrame(t *testing.T) {
	tests := []struct {
		name    string
		clockHz int
		frames  int
		want    int
	}{
		{"default clock", 500, 60, 500},
		{"exact multiple", 600, 60, 600},
		{"odd clock", 1001, 60, 1001},
		{"slower than timer", 30, 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, carry := 0, 0
			for range tt.frames {
				var n int
				n, carry = InstructionsPerFrame(tt.clockHz, carry)
				assert.GreaterOrEqual(t, n, 1)
				total += n
			}
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestInstructionsPerFrame_Spread(t *testing.T) {
	n, carry := InstructionsPerFrame(500, 0)
	assert.Equal(t, 8, n)
	assert.Equal(t, 20, carry)

	n, carry = InstructionsPerFrame(500, carry)
	assert.Equal(t, 8, n)
	assert.Equal(t, 40, carry)

	n, carry = InstructionsPerFrame(500, carry)
	assert.Equal(t, 9, n)
	assert.Equal(t, 0, carry)
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for range 100 {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), FrameDuration())
}

func TestTickerLimiter(t *testing.T) {
	l := NewTickerLimiter()
	defer l.Stop()

	start := time.Now()
	l.WaitForNextFrame()
	l.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), FrameDuration())

	// a paused loop leaves a stale tick behind, Reset drops it
	time.Sleep(2 * FrameDuration())
	l.Reset()
	start = time.Now()
	l.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), FrameDuration()/2)
}

func TestAdaptiveLimiter(t *testing.T) {
	l := NewAdaptiveLimiter()

	start := time.Now()
	for range 3 {
		l.WaitForNextFrame()
	}
	// the first frame is due immediately
	assert.GreaterOrEqual(t, time.Since(start), 2*FrameDuration()-time.Millisecond)

	l.Reset()
	assert.Zero(t, l.frameCounter)
}
