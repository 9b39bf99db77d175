package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

// The flag computations below read both operands before any write, and VF is
// always written last so it holds the flag even when x is 0xF.

func (c *CPU) add(x uint8, a, b uint8) {
	result, carry := bit.CheckedAdd(a, b)
	c.v[x] = result
	c.setFlag(carry)
}

// sub stores a-b in Vx. VF is the NOT-borrow flag.
func (c *CPU) sub(x uint8, a, b uint8) {
	result, borrow := bit.CheckedSub(a, b)
	c.v[x] = result
	c.setFlag(!borrow)
}

func (c *CPU) shr(x uint8, value uint8) {
	c.v[x] = value >> 1
	c.v[addr.FlagRegister] = bit.GetBitValue(0, value)
}

func (c *CPU) shl(x uint8, value uint8) {
	c.v[x] = value << 1
	c.v[addr.FlagRegister] = bit.GetBitValue(7, value)
}

func (c *CPU) shiftSource(in Instruction) uint8 {
	if c.quirks.ShiftUsesVY {
		return c.v[in.Y]
	}
	return c.v[in.X]
}

func (c *CPU) logicQuirk() {
	if c.quirks.LogicResetsVF {
		c.v[addr.FlagRegister] = 0
	}
}

func (c *CPU) loadStoreQuirk(x uint8) {
	if c.quirks.LoadStoreIncrementsI {
		c.i += uint16(x) + 1
	}
}

// draw XORs an 8xN sprite read from I onto the display at (Vx, Vy).
// VF is cleared first and set if any lit pixel was erased.
func (c *CPU) draw(x, y, rows uint8) {
	c.v[addr.FlagRegister] = 0

	ox := int(c.v[x]) % addr.DisplayWidth
	oy := int(c.v[y]) % addr.DisplayHeight

	collision := false
	for r := 0; r < int(rows); r++ {
		py := oy + r
		if c.quirks.ClipSprites && py >= addr.DisplayHeight {
			break
		}

		sprite := c.readAt(c.i, r)
		for col := 0; col < addr.SpriteWidth; col++ {
			if !bit.IsSet(uint8(7-col), sprite) {
				continue
			}
			px := ox + col
			if c.quirks.ClipSprites && px >= addr.DisplayWidth {
				break
			}
			if c.display.XorPixel(px, py) {
				collision = true
			}
		}
	}

	if collision {
		c.v[addr.FlagRegister] = 1
	}
}
