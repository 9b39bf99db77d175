package addr

// memory map
const (
	// MemorySize is the size of the flat address space.
	MemorySize = 0x1000
	// MaxAddress is the last addressable byte.
	MaxAddress uint16 = MemorySize - 1

	// FontStart is where the hex font glyphs are loaded at reset.
	FontStart uint16 = 0x000
	// FontGlyphSize is the number of bytes (rows) of each font glyph.
	FontGlyphSize = 5
	// FontEnd is the first address past the font table.
	FontEnd uint16 = FontStart + 16*FontGlyphSize

	// ProgramStart is where programs are loaded and where PC points at reset.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest program that fits between ProgramStart and MaxAddress.
	MaxProgramSize = int(MaxAddress) - int(ProgramStart) + 1
)

// machine dimensions
const (
	RegisterCount = 16
	StackDepth    = 16
	KeyCount      = 16

	// FlagRegister is the index of VF.
	FlagRegister = 0xF

	// InstructionSize is the width of an opcode in bytes.
	InstructionSize uint16 = 2
)

// display geometry
const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight

	// SpriteWidth is the fixed width of a sprite row in pixels.
	SpriteWidth = 8
)

// clocks
const (
	// TimerHz is the rate at which the delay and sound timers decrement.
	TimerHz = 60
	// DefaultClockHz is the default instruction rate.
	DefaultClockHz = 500
)
