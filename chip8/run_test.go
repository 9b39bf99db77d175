package chip8

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// scriptedBackend returns the events scheduled for each Update call and
// records the cycle count seen at every frame.
type scriptedBackend struct {
	vm      *VM
	script  map[int][]backend.InputEvent
	updates int
	cycles  []uint64
	err     error
	hook    func(update int)
}

func (s *scriptedBackend) Init(backend.BackendConfig) error { return nil }
func (s *scriptedBackend) Cleanup() error                   { return nil }

func (s *scriptedBackend) Update(*video.FrameBuffer) ([]backend.InputEvent, error) {
	s.updates++
	if s.vm != nil {
		s.cycles = append(s.cycles, s.vm.CPU().GetCycles())
	}
	if s.hook != nil {
		s.hook(s.updates)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.script[s.updates], nil
}

func press(act action.Action) backend.InputEvent {
	return backend.InputEvent{Action: act, Type: event.Press}
}

type countingLimiter struct {
	waits  int
	resets int
}

func (l *countingLimiter) WaitForNextFrame() { l.waits++ }
func (l *countingLimiter) Reset()            { l.resets++ }

func TestRun_Headless(t *testing.T) {
	v := newVM(t, DefaultConfig(), ibmLogo...)
	h := headless.New(10, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.BackendConfig{Title: "test"}))

	require.NoError(t, v.Run(context.Background(), h, nil))
	assert.Equal(t, 10, h.Frames())
	assert.Equal(t, uint64(10), v.Frames())
	assert.NotZero(t, v.Display().Lit())
}

func TestRun_PauseAndStep(t *testing.T) {
	v := newVM(t, DefaultConfig(), 0x12, 0x00)
	limiter := &countingLimiter{}
	b := &scriptedBackend{
		vm: v,
		script: map[int][]backend.InputEvent{
			1: {press(action.EmulatorPauseToggle)},
			3: {press(action.EmulatorStepInstruction)},
			5: {press(action.EmulatorStepFrame)},
			7: {press(action.EmulatorQuit)},
		},
	}

	require.NoError(t, v.Run(context.Background(), b, limiter))

	// frame 1 runs, 2 and 3 are paused, 4 steps one instruction,
	// 5 is paused, 6 steps a frame, 7 is paused
	assert.Equal(t, []uint64{8, 8, 8, 9, 9, 17, 17}, b.cycles)
	assert.True(t, v.Paused())
	assert.Equal(t, uint64(2), v.Frames())
	assert.Equal(t, 6, limiter.waits)
	assert.Equal(t, debug.DebuggerPaused, v.ExtractDebugData().DebuggerState)
}

func TestRun_ResumeResetsLimiter(t *testing.T) {
	v := newVM(t, DefaultConfig(), 0x12, 0x00)
	limiter := &countingLimiter{}
	b := &scriptedBackend{
		script: map[int][]backend.InputEvent{
			1: {press(action.EmulatorPauseToggle)},
			4: {press(action.EmulatorQuit)},
		},
	}
	// a second toggle through the input manager would be debounced
	b.hook = func(update int) {
		if update == 3 {
			v.togglePause()
		}
	}

	require.NoError(t, v.Run(context.Background(), b, limiter))

	assert.False(t, v.Paused())
	assert.Equal(t, 2, limiter.resets)
}

func TestRun_Errors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		v := newVM(t, DefaultConfig(), 0x12, 0x00)
		boom := errors.New("boom")

		err := v.Run(context.Background(), &scriptedBackend{err: boom}, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("halt", func(t *testing.T) {
		v := newVM(t, DefaultConfig(), 0x00, 0xEE)

		err := v.Run(context.Background(), &scriptedBackend{}, nil)
		assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
		assert.True(t, v.Halted())
	})
}
