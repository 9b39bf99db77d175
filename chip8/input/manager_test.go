package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

func TestManager_KeypadActions(t *testing.T) {
	keypad := memory.NewKeypad()
	m := NewManager(keypad)

	m.Trigger(action.KeypadA, event.Press)
	assert.True(t, keypad.IsPressed(memory.KeyA))

	// keypad actions are not debounced
	m.Trigger(action.KeypadA, event.Release)
	m.Trigger(action.KeypadA, event.Press)
	assert.True(t, keypad.IsPressed(memory.KeyA))

	m.Trigger(action.KeypadA, event.Release)
	assert.False(t, keypad.IsPressed(memory.KeyA))

	m.Trigger(action.Keypad3, event.Hold)
	assert.True(t, keypad.IsPressed(memory.Key3))
}

func TestManager_Callbacks(t *testing.T) {
	m := NewManager(nil)

	calls := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { calls++ })
	m.On(action.EmulatorPauseToggle, event.Press, func() { calls++ })

	m.Trigger(action.EmulatorPauseToggle, event.Press)
	assert.Equal(t, 2, calls)

	m.Trigger(action.EmulatorPauseToggle, event.Release)
	assert.Equal(t, 2, calls, "no handler registered for release")
}

func TestManager_Debouncing(t *testing.T) {
	tests := []struct {
		name        string
		eventType   event.Type
		timeBetween time.Duration
		wantCalls   int
	}{
		{"rapid press is debounced", event.Press, 100 * time.Millisecond, 1},
		{"slow press is not debounced", event.Press, 400 * time.Millisecond, 2},
		{"hold is never debounced", event.Hold, 10 * time.Millisecond, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			clock := time.Unix(0, 0)
			m.now = func() time.Time { return clock }

			calls := 0
			m.On(action.EmulatorSnapshot, tt.eventType, func() { calls++ })

			m.Trigger(action.EmulatorSnapshot, tt.eventType)
			clock = clock.Add(tt.timeBetween)
			m.Trigger(action.EmulatorSnapshot, tt.eventType)

			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestDefaultKeyMap_Keypad(t *testing.T) {
	layout := []struct {
		key  string
		want uint8
	}{
		{"1", 0x1}, {"2", 0x2}, {"3", 0x3}, {"4", 0xC},
		{"q", 0x4}, {"w", 0x5}, {"e", 0x6}, {"r", 0xD},
		{"a", 0x7}, {"s", 0x8}, {"d", 0x9}, {"f", 0xE},
		{"z", 0xA}, {"x", 0x0}, {"c", 0xB}, {"v", 0xF},
	}

	for _, l := range layout {
		act, ok := GetDefaultMapping(l.key)
		require.True(t, ok, l.key)
		key, ok := action.KeypadKey(act)
		require.True(t, ok, l.key)
		assert.Equal(t, l.want, key, l.key)
	}
}

func TestNewKeyMap(t *testing.T) {
	km, err := NewKeyMap(map[string]string{"5": "k"})
	require.NoError(t, err)

	act, ok := km.Lookup("k")
	assert.True(t, ok)
	assert.Equal(t, action.Keypad5, act)

	_, ok = km.Lookup("w")
	assert.False(t, ok, "previous binding of 5 is dropped")

	act, ok = km.Lookup("Escape")
	assert.True(t, ok)
	assert.Equal(t, action.EmulatorQuit, act)

	_, ok = DefaultKeyMap["k"]
	assert.False(t, ok, "defaults are not modified")

	_, err = NewKeyMap(map[string]string{"G": "k"})
	assert.Error(t, err)
	_, err = NewKeyMap(map[string]string{"10": "k"})
	assert.Error(t, err)
}

func TestNewKeyMap_NormalizesCase(t *testing.T) {
	km, err := NewKeyMap(map[string]string{"5": "W", "a": "K", "b": "Space"})
	require.NoError(t, err)

	act, ok := km.Lookup("w")
	assert.True(t, ok)
	assert.Equal(t, action.Keypad5, act)
	_, ok = km.Lookup("W")
	assert.False(t, ok)

	act, ok = km.Lookup("k")
	assert.True(t, ok)
	assert.Equal(t, action.KeypadA, act)

	act, ok = km.Lookup("Space")
	assert.True(t, ok, "named keys keep their case")
	assert.Equal(t, action.KeypadB, act)
}
