package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_PressRelease(t *testing.T) {
	k := NewKeypad()

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	k.Press(KeyA)
	k.Press(Key3)
	assert.True(t, k.IsPressed(KeyA))
	assert.True(t, k.IsPressed(0x1A), "only the low nibble is used")

	first, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, Key3, first)

	k.Release(Key3)
	first, _ = k.FirstPressed()
	assert.Equal(t, KeyA, first)

	k.ReleaseAll()
	assert.False(t, k.IsPressed(KeyA))
}

func TestKeypad_StateRestore(t *testing.T) {
	k := NewKeypad()
	k.Set(KeyF, true)
	state := k.State()

	other := NewKeypad()
	other.Restore(state)
	assert.True(t, other.IsPressed(KeyF))
}
