package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypadKey(t *testing.T) {
	for k := uint8(0); k < 16; k++ {
		act := ForKey(k)
		got, ok := KeypadKey(act)
		assert.True(t, ok)
		assert.Equal(t, k, got)
		assert.Equal(t, CategoryGameInput, GetInfo(act).Category)
	}

	_, ok := KeypadKey(EmulatorQuit)
	assert.False(t, ok)
	assert.Equal(t, KeypadA, ForKey(0x1A), "only the low nibble is used")
}

func TestGetInfo(t *testing.T) {
	assert.Equal(t, "Keypad C", GetInfo(KeypadC).Description)
	assert.Equal(t, CategoryEmulator, GetInfo(EmulatorPauseToggle).Category)
	assert.Equal(t, CategoryDebug, GetInfo(DebugLogLevelIncrease).Category)
	assert.Equal(t, "Action(999)", GetInfo(Action(999)).Description)
}
