package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/addr"
)

func TestNew_ResetState(t *testing.T) {
	m := New()

	dump := m.Dump()
	assert.Equal(t, FontSet[:], dump[addr.FontStart:addr.FontEnd])
	for i := int(addr.FontEnd); i < addr.MemorySize; i++ {
		require.Zerof(t, dump[i], "memory at 0x%03X should be zero", i)
	}
}

func TestMemory_LoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "small", size: 132},
		{name: "exactly fits", size: addr.MaxProgramSize},
		{name: "one byte too many", size: addr.MaxProgramSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			program := make([]byte, tt.size)
			for i := range program {
				program[i] = byte(i) | 1
			}

			err := m.LoadProgram(program)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRomTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, program, m.Slice(addr.ProgramStart, tt.size))
		})
	}
}

func TestMemory_LoadProgramClearsTail(t *testing.T) {
	m := New()
	require.NoError(t, m.LoadProgram([]byte{1, 2, 3, 4}))
	require.NoError(t, m.LoadProgram([]byte{9}))

	assert.Equal(t, []byte{9, 0, 0, 0}, m.Slice(addr.ProgramStart, 4))
}

func TestMemory_ReadWriteBounds(t *testing.T) {
	m := New()

	require.NoError(t, m.Write(addr.MaxAddress, 0xAB))
	v, err := m.Read(addr.MaxAddress)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), v)

	_, err = m.Read(addr.MaxAddress + 1)
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	assert.ErrorIs(t, m.Write(0xFFFF, 1), ErrAddressOutOfRange)
	assert.Equal(t, byte(0), m.Peek(0x1000))
}

func TestMemory_SliceTruncatesAtEnd(t *testing.T) {
	m := New()
	assert.Len(t, m.Slice(0xFFE, 10), 2)
	assert.Nil(t, m.Slice(0x1000, 10))
}

func TestGlyph(t *testing.T) {
	for d := uint8(0); d < 16; d++ {
		assert.Equal(t, uint16(d)*5, GlyphAddress(d))
		assert.Equal(t, FontSet[d*5:d*5+5], Glyph(d))
	}
	assert.Equal(t, GlyphAddress(0x0A), GlyphAddress(0xFA), "only the low nibble selects the glyph")
}
