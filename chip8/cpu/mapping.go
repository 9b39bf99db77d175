package cpu

import "github.com/valerio/go-chip8/chip8/bit"

// Opcode executes a decoded instruction.
type Opcode func(*CPU, Instruction) error

// Instruction is an opcode split into the fields the instruction set uses.
type Instruction struct {
	Opcode uint16
	Op     uint8  // top nibble, primary category
	X      uint8  // register index
	Y      uint8  // register index
	N      uint8  // 4 bit immediate
	NN     uint8  // 8 bit immediate
	NNN    uint16 // 12 bit address
}

// DecodeInstruction splits opcode into its nibble fields.
func DecodeInstruction(opcode uint16) Instruction {
	return Instruction{
		Opcode: opcode,
		Op:     bit.Nibble(3, opcode),
		X:      bit.Nibble(2, opcode),
		Y:      bit.Nibble(1, opcode),
		N:      bit.Nibble(0, opcode),
		NN:     bit.Low(opcode),
		NNN:    opcode & 0x0FFF,
	}
}

// Decode returns the instruction fields and the function executing opcode.
// Unrecognized opcodes map to a function raising a DecodeFault.
func Decode(opcode uint16) (Instruction, Opcode) {
	in := DecodeInstruction(opcode)
	return in, lookup(in)
}

// Known reports whether opcode belongs to the instruction set.
func Known(opcode uint16) bool {
	return !isUnknown(DecodeInstruction(opcode))
}

func isUnknown(in Instruction) bool {
	switch in.Op {
	case 0x5, 0x9:
		return in.N != 0
	case 0x8:
		return arithmetic[in.N] == nil
	case 0xE:
		return in.NN != 0x9E && in.NN != 0xA1
	case 0xF:
		_, ok := misc[in.NN]
		return !ok
	}
	return false
}

// lookup dispatches on the top nibble first, then on the sub-nibble(s)
// for the 0, 5, 8, 9, E and F groups.
func lookup(in Instruction) Opcode {
	switch in.Op {
	case 0x0:
		switch in.Opcode {
		case 0x00E0:
			return opCLS
		case 0x00EE:
			return opRET
		}
		return opSYS
	case 0x1:
		return opJP
	case 0x2:
		return opCALL
	case 0x3:
		return opSEVxByte
	case 0x4:
		return opSNEVxByte
	case 0x5:
		if in.N == 0 {
			return opSEVxVy
		}
	case 0x6:
		return opLDVxByte
	case 0x7:
		return opADDVxByte
	case 0x8:
		if op := arithmetic[in.N]; op != nil {
			return op
		}
	case 0x9:
		if in.N == 0 {
			return opSNEVxVy
		}
	case 0xA:
		return opLDI
	case 0xB:
		return opJPV0
	case 0xC:
		return opRND
	case 0xD:
		return opDRW
	case 0xE:
		switch in.NN {
		case 0x9E:
			return opSKP
		case 0xA1:
			return opSKNP
		}
	case 0xF:
		if op, ok := misc[in.NN]; ok {
			return op
		}
	}
	return opUnknown
}

// arithmetic is the 8XYN group indexed by N.
var arithmetic = [16]Opcode{
	0x0: opLDVxVy,
	0x1: opOR,
	0x2: opAND,
	0x3: opXOR,
	0x4: opADDVxVy,
	0x5: opSUB,
	0x6: opSHR,
	0x7: opSUBN,
	0xE: opSHL,
}

// misc is the FXNN group indexed by NN.
var misc = map[uint8]Opcode{
	0x07: opLDVxDT,
	0x0A: opLDVxK,
	0x15: opLDDTVx,
	0x18: opLDSTVx,
	0x1E: opADDIVx,
	0x29: opLDF,
	0x33: opLDB,
	0x55: opLDIVx,
	0x65: opLDVxI,
}
