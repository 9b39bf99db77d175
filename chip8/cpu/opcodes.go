package cpu

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

func opUnknown(c *CPU, _ Instruction) error {
	return c.newFault(DecodeFault)
}

// CLS
// #00E0:
func opCLS(c *CPU, _ Instruction) error {
	c.display.Clear()
	return nil
}

// RET
// #00EE:
func opRET(c *CPU, _ Instruction) error {
	if c.sp == 0 {
		return c.newFault(StackUnderflow)
	}
	c.sp--
	c.pc = c.stack[c.sp]
	return nil
}

// SYS addr
// #0NNN: machine code routine on the original hardware, ignored.
func opSYS(_ *CPU, _ Instruction) error {
	return nil
}

// JP addr
// #1NNN:
func opJP(c *CPU, in Instruction) error {
	c.pc = in.NNN
	return nil
}

// CALL addr
// #2NNN:
func opCALL(c *CPU, in Instruction) error {
	if int(c.sp) >= addr.StackDepth {
		return c.newFault(StackOverflow)
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = in.NNN
	return nil
}

// SE Vx, NN
// #3XNN:
func opSEVxByte(c *CPU, in Instruction) error {
	c.skipIf(c.v[in.X] == in.NN)
	return nil
}

// SNE Vx, NN
// #4XNN:
func opSNEVxByte(c *CPU, in Instruction) error {
	c.skipIf(c.v[in.X] != in.NN)
	return nil
}

// SE Vx, Vy
// #5XY0:
func opSEVxVy(c *CPU, in Instruction) error {
	c.skipIf(c.v[in.X] == c.v[in.Y])
	return nil
}

// LD Vx, NN
// #6XNN:
func opLDVxByte(c *CPU, in Instruction) error {
	c.v[in.X] = in.NN
	return nil
}

// ADD Vx, NN
// #7XNN: wraps, VF untouched.
func opADDVxByte(c *CPU, in Instruction) error {
	c.v[in.X] += in.NN
	return nil
}

// LD Vx, Vy
// #8XY0:
func opLDVxVy(c *CPU, in Instruction) error {
	c.v[in.X] = c.v[in.Y]
	return nil
}

// OR Vx, Vy
// #8XY1:
func opOR(c *CPU, in Instruction) error {
	c.v[in.X] |= c.v[in.Y]
	c.logicQuirk()
	return nil
}

// AND Vx, Vy
// #8XY2:
func opAND(c *CPU, in Instruction) error {
	c.v[in.X] &= c.v[in.Y]
	c.logicQuirk()
	return nil
}

// XOR Vx, Vy
// #8XY3:
func opXOR(c *CPU, in Instruction) error {
	c.v[in.X] ^= c.v[in.Y]
	c.logicQuirk()
	return nil
}

// ADD Vx, Vy
// #8XY4:
func opADDVxVy(c *CPU, in Instruction) error {
	c.add(in.X, c.v[in.X], c.v[in.Y])
	return nil
}

// SUB Vx, Vy
// #8XY5:
func opSUB(c *CPU, in Instruction) error {
	c.sub(in.X, c.v[in.X], c.v[in.Y])
	return nil
}

// SHR Vx {, Vy}
// #8XY6:
func opSHR(c *CPU, in Instruction) error {
	c.shr(in.X, c.shiftSource(in))
	return nil
}

// SUBN Vx, Vy
// #8XY7:
func opSUBN(c *CPU, in Instruction) error {
	c.sub(in.X, c.v[in.Y], c.v[in.X])
	return nil
}

// SHL Vx {, Vy}
// #8XYE:
func opSHL(c *CPU, in Instruction) error {
	c.shl(in.X, c.shiftSource(in))
	return nil
}

// SNE Vx, Vy
// #9XY0:
func opSNEVxVy(c *CPU, in Instruction) error {
	c.skipIf(c.v[in.X] != c.v[in.Y])
	return nil
}

// LD I, addr
// #ANNN:
func opLDI(c *CPU, in Instruction) error {
	c.i = in.NNN
	return nil
}

// JP V0, addr
// #BNNN:
func opJPV0(c *CPU, in Instruction) error {
	c.pc = in.NNN + uint16(c.v[0])
	return nil
}

// RND Vx, NN
// #CXNN:
func opRND(c *CPU, in Instruction) error {
	c.v[in.X] = uint8(c.rng.Uint32()) & in.NN
	return nil
}

// DRW Vx, Vy, N
// #DXYN:
func opDRW(c *CPU, in Instruction) error {
	fault := c.checkRange(c.i, int(in.N))
	if fault != nil && c.strict {
		return fault
	}
	c.draw(in.X, in.Y, in.N)
	return fault
}

// SKP Vx
// #EX9E:
func opSKP(c *CPU, in Instruction) error {
	c.skipIf(c.keypad.IsPressed(memory.Key(c.v[in.X])))
	return nil
}

// SKNP Vx
// #EXA1:
func opSKNP(c *CPU, in Instruction) error {
	c.skipIf(!c.keypad.IsPressed(memory.Key(c.v[in.X])))
	return nil
}

// LD Vx, DT
// #FX07:
func opLDVxDT(c *CPU, in Instruction) error {
	c.v[in.X] = c.timers.Delay()
	return nil
}

// LD Vx, K
// #FX0A: blocks by rewinding PC until a key is held.
func opLDVxK(c *CPU, in Instruction) error {
	key, ok := c.keypad.FirstPressed()
	if !ok {
		c.pc -= addr.InstructionSize
		c.state = AwaitingKey
		return nil
	}
	c.v[in.X] = uint8(key)
	return nil
}

// LD DT, Vx
// #FX15:
func opLDDTVx(c *CPU, in Instruction) error {
	c.timers.SetDelay(c.v[in.X])
	return nil
}

// LD ST, Vx
// #FX18:
func opLDSTVx(c *CPU, in Instruction) error {
	c.timers.SetSound(c.v[in.X])
	return nil
}

// ADD I, Vx
// #FX1E:
func opADDIVx(c *CPU, in Instruction) error {
	c.i += uint16(c.v[in.X])
	return nil
}

// LD F, Vx
// #FX29:
func opLDF(c *CPU, in Instruction) error {
	c.i = memory.GlyphAddress(c.v[in.X])
	return nil
}

// LD B, Vx
// #FX33:
func opLDB(c *CPU, in Instruction) error {
	fault := c.checkRange(c.i, 3)
	if fault != nil && c.strict {
		return fault
	}
	hundreds, tens, ones := bit.BCD(c.v[in.X])
	c.writeAt(c.i, 0, hundreds)
	c.writeAt(c.i, 1, tens)
	c.writeAt(c.i, 2, ones)
	return fault
}

// LD [I], Vx
// #FX55: stores V0 through Vx inclusive.
func opLDIVx(c *CPU, in Instruction) error {
	count := int(in.X) + 1
	fault := c.checkRange(c.i, count)
	if fault != nil && c.strict {
		return fault
	}
	for k := 0; k < count; k++ {
		c.writeAt(c.i, k, c.v[k])
	}
	c.loadStoreQuirk(in.X)
	return fault
}

// LD Vx, [I]
// #FX65: loads V0 through Vx inclusive.
func opLDVxI(c *CPU, in Instruction) error {
	count := int(in.X) + 1
	fault := c.checkRange(c.i, count)
	if fault != nil && c.strict {
		return fault
	}
	for k := 0; k < count; k++ {
		c.v[k] = c.readAt(c.i, k)
	}
	c.loadStoreQuirk(in.X)
	return fault
}
