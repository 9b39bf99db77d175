package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// MemoryReader is the read-only view the disassembler needs.
type MemoryReader interface {
	Peek(address uint16) byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
}

// Disassemble returns the mnemonic for a single opcode. Opcodes outside the
// instruction set are shown as data words.
func Disassemble(opcode uint16) string {
	if !cpu.Known(opcode) {
		return fmt.Sprintf("DW 0x%04X", opcode)
	}

	in := cpu.DecodeInstruction(opcode)
	x, y := in.X, in.Y

	switch in.Op {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS 0x%03X", in.NNN)
	case 0x1:
		return fmt.Sprintf("JP 0x%03X", in.NNN)
	case 0x2:
		return fmt.Sprintf("CALL 0x%03X", in.NNN)
	case 0x3:
		return fmt.Sprintf("SE V%X, 0x%02X", x, in.NN)
	case 0x4:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, in.NN)
	case 0x5:
		return fmt.Sprintf("SE V%X, V%X", x, y)
	case 0x6:
		return fmt.Sprintf("LD V%X, 0x%02X", x, in.NN)
	case 0x7:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, in.NN)
	case 0x8:
		return fmt.Sprintf(arithmetic[in.N], x, y)
	case 0x9:
		return fmt.Sprintf("SNE V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("LD I, 0x%03X", in.NNN)
	case 0xB:
		return fmt.Sprintf("JP V0, 0x%03X", in.NNN)
	case 0xC:
		return fmt.Sprintf("RND V%X, 0x%02X", x, in.NN)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, in.N)
	case 0xE:
		if in.NN == 0x9E {
			return fmt.Sprintf("SKP V%X", x)
		}
		return fmt.Sprintf("SKNP V%X", x)
	case 0xF:
		return fmt.Sprintf(misc[in.NN], x)
	}
	return fmt.Sprintf("DW 0x%04X", opcode)
}

var arithmetic = map[uint8]string{
	0x0: "LD V%X, V%X",
	0x1: "OR V%X, V%X",
	0x2: "AND V%X, V%X",
	0x3: "XOR V%X, V%X",
	0x4: "ADD V%X, V%X",
	0x5: "SUB V%X, V%X",
	0x6: "SHR V%X, V%X",
	0x7: "SUBN V%X, V%X",
	0xE: "SHL V%X, V%X",
}

var misc = map[uint8]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// DisassembleAt disassembles the instruction at the given address.
func DisassembleAt(pc uint16, mem MemoryReader) DisassemblyLine {
	opcode := bit.Combine(mem.Peek(pc), mem.Peek(pc+1))
	return DisassemblyLine{
		Address:     pc,
		Opcode:      opcode,
		Instruction: Disassemble(opcode),
	}
}

// DisassembleRange disassembles count instructions starting from startPC,
// stopping at the end of memory.
func DisassembleRange(startPC uint16, count int, mem MemoryReader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	for pc := int(startPC); len(lines) < count && pc < int(addr.MaxAddress); pc += int(addr.InstructionSize) {
		lines = append(lines, DisassembleAt(uint16(pc), mem))
	}
	return lines
}

// DisassembleAround disassembles up to before instructions preceding the
// current PC, the instruction at PC, and after instructions following it.
// Fixed-width opcodes make walking backwards exact.
func DisassembleAround(currentPC uint16, before, after int, mem MemoryReader) []DisassemblyLine {
	start := int(currentPC) - before*int(addr.InstructionSize)
	if start < 0 {
		start = int(currentPC) % int(addr.InstructionSize)
	}
	count := (int(currentPC)-start)/int(addr.InstructionSize) + 1 + after
	return DisassembleRange(uint16(start), count, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%03X: %04X  %s", prefix, line.Address, line.Opcode, line.Instruction)
}
