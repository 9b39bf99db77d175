package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
)

var (
	// ErrRomTooLarge is returned when a program does not fit between 0x200 and 0xFFF.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrAddressOutOfRange is returned for any access past the end of memory.
	ErrAddressOutOfRange = errors.New("address out of range")
)

// Memory is the flat 4 KiB address space. The font table lives at the bottom,
// programs are loaded at addr.ProgramStart.
type Memory struct {
	data [addr.MemorySize]byte
}

// New returns memory in its reset state: zeroed, with the font table loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes memory and reloads the font table.
func (m *Memory) Reset() {
	m.data = [addr.MemorySize]byte{}
	copy(m.data[addr.FontStart:], FontSet[:])
}

// LoadProgram copies program into memory starting at addr.ProgramStart.
// Bytes past the program are left zeroed.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrRomTooLarge, len(program), addr.MaxProgramSize)
	}

	clear(m.data[addr.ProgramStart:])
	copy(m.data[addr.ProgramStart:], program)
	return nil
}

// Read returns the byte at address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= addr.MemorySize {
		return 0, outOfRange(address)
	}
	return m.data[address], nil
}

// Write stores value at address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= addr.MemorySize {
		return outOfRange(address)
	}
	m.data[address] = value
	return nil
}

// Peek reads a byte without reporting faults, out of range addresses read as 0.
// Used by debuggers and disassemblers that must not disturb execution.
func (m *Memory) Peek(address uint16) byte {
	if int(address) >= addr.MemorySize {
		return 0
	}
	return m.data[address]
}

// Slice returns a copy of up to n bytes starting at address, truncated at the end of memory.
func (m *Memory) Slice(address uint16, n int) []byte {
	if int(address) >= addr.MemorySize || n <= 0 {
		return nil
	}
	end := min(int(address)+n, addr.MemorySize)
	out := make([]byte, end-int(address))
	copy(out, m.data[address:end])
	return out
}

// Dump returns a copy of the whole address space.
func (m *Memory) Dump() [addr.MemorySize]byte {
	return m.data
}

// Restore replaces the whole address space.
func (m *Memory) Restore(data [addr.MemorySize]byte) {
	m.data = data
}

func outOfRange(address uint16) error {
	return fmt.Errorf("%w: 0x%04X", ErrAddressOutOfRange, address)
}
