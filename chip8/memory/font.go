package memory

import "github.com/valerio/go-chip8/chip8/addr"

// FontSet holds the 4x5 glyphs for the hex digits 0-F, one byte per row,
// most significant bit being the leftmost pixel.
var FontSet = [16 * addr.FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// GlyphAddress returns the address of the font glyph for the low nibble of digit.
func GlyphAddress(digit uint8) uint16 {
	return addr.FontStart + uint16(digit&0x0F)*addr.FontGlyphSize
}

// Glyph returns the 5 rows of the glyph for the low nibble of digit.
func Glyph(digit uint8) []byte {
	start := GlyphAddress(digit) - addr.FontStart
	return FontSet[start : start+addr.FontGlyphSize]
}
