package debug

import "github.com/valerio/go-chip8/chip8/addr"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	V     [addr.RegisterCount]uint8
	I     uint16
	PC    uint16
	SP    uint8
	Stack []uint16

	DelayTimer uint8
	SoundTimer uint8

	Opcode uint16
	Cycles uint64
	State  string
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// Peek returns the byte at address, or 0 if it is outside the snapshot.
func (m *MemorySnapshot) Peek(address uint16) byte {
	if address < m.StartAddr || int(address-m.StartAddr) >= len(m.Bytes) {
		return 0
	}
	return m.Bytes[address-m.StartAddr]
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step instruction"
	case DebuggerStepFrame:
		return "step frame"
	default:
		return "unknown"
	}
}

// Data contains all debug information needed by debug displays
type Data struct {
	CPU           *CPUState
	Memory        *MemorySnapshot
	Keys          [addr.KeyCount]bool
	Frame         uint64
	LitPixels     int
	DebuggerState DebuggerState
}
