package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func newVM(t *testing.T, program ...byte) *chip8.VM {
	t.Helper()
	v := chip8.New(chip8.DefaultConfig())
	require.NoError(t, v.LoadProgram(program))
	return v
}

func TestScript_DrivesKeypad(t *testing.T) {
	v := newVM(t,
		0xF0, 0x0A, // LD V0, K
		0x12, 0x02, // JP 0x202
	)
	h := headless.New(100, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	s, err := LoadString(`
		function on_frame(n)
			if n == 2 then press(5) end
			if n == 3 then release(5) end
			if n == 5 then quit() end
		end
	`, h, v)
	require.NoError(t, err)
	defer s.Cleanup()

	require.NoError(t, v.Run(context.Background(), s, nil))
	assert.Equal(t, uint8(5), v.CPU().V(0))
	assert.False(t, v.Keypad().IsPressed(5))
	assert.Equal(t, 5, h.Frames())
}

func TestScript_Inspect(t *testing.T) {
	v := newVM(t,
		0x6A, 0x2B, // LD VA, 0x2B
		0xA3, 0x45, // LD I, 0x345
		0x61, 0x09, // LD V1, 9
		0xF1, 0x15, // LD DT, V1
	)
	for range 4 {
		require.NoError(t, v.Step())
	}

	s, err := LoadString(`
		function on_frame(n)
			frame = n
			va = reg(10)
			i = reg("I")
			dt = reg("dt")
			counter = pc()
			first = peek(0x200)
		end
	`, headless.New(1, headless.SnapshotConfig{}), v)
	require.NoError(t, err)
	defer s.Cleanup()

	events, err := s.Update(v.GetCurrentFrame())
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, events)

	global := func(name string) float64 {
		return float64(lua.LVAsNumber(s.state.GetGlobal(name)))
	}
	assert.Equal(t, 1.0, global("frame"))
	assert.Equal(t, float64(0x2B), global("va"))
	assert.Equal(t, float64(0x345), global("i"))
	assert.Equal(t, 9.0, global("dt"))
	assert.Equal(t, float64(0x208), global("counter"))
	assert.Equal(t, float64(0x6A), global("first"))
}

func TestScript_QueuedEvents(t *testing.T) {
	v := newVM(t)
	s, err := LoadString(`
		function on_frame(n)
			press(0)
			press(15)
		end
	`, headless.New(10, headless.SnapshotConfig{}), v)
	require.NoError(t, err)
	defer s.Cleanup()

	events, err := s.Update(v.GetCurrentFrame())
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{
		{Action: action.Keypad0, Type: event.Press},
		{Action: action.KeypadF, Type: event.Press},
	}, events)

	// queued events are handed out once
	events, err = s.Update(v.GetCurrentFrame())
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestScript_Errors(t *testing.T) {
	v := newVM(t)
	base := headless.New(10, headless.SnapshotConfig{})

	t.Run("syntax error", func(t *testing.T) {
		_, err := LoadString("function on_frame(", base, v)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.lua"), base, v)
		assert.Error(t, err)
	})

	testCases := []struct {
		desc   string
		source string
	}{
		{desc: "key out of range", source: "function on_frame(n) press(16) end"},
		{desc: "register out of range", source: "function on_frame(n) reg(16) end"},
		{desc: "unknown register", source: `function on_frame(n) reg("pc") end`},
		{desc: "address out of range", source: "function on_frame(n) peek(4096) end"},
		{desc: "runtime error", source: "function on_frame(n) error('boom') end"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			s, err := LoadString(tC.source, base, v)
			require.NoError(t, err)
			defer s.Cleanup()

			_, err = s.Update(v.GetCurrentFrame())
			assert.Error(t, err)
		})
	}
}

func TestScript_NoHook(t *testing.T) {
	v := newVM(t)
	path := filepath.Join(t.TempDir(), "empty.lua")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	s, err := Load(path, headless.New(10, headless.SnapshotConfig{}), v)
	require.NoError(t, err)
	defer s.Cleanup()

	events, err := s.Update(v.GetCurrentFrame())
	require.NoError(t, err)
	assert.Empty(t, events)
}
