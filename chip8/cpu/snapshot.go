package cpu

import "github.com/valerio/go-chip8/chip8/addr"

// Snapshot is the serializable register file and execution state.
type Snapshot struct {
	V      [addr.RegisterCount]uint8
	I      uint16
	PC     uint16
	SP     uint8
	Stack  [addr.StackDepth]uint16
	Opcode uint16
	Cycles uint64
	State  State
}

// Snapshot captures the CPU registers and state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		V:      c.v,
		I:      c.i,
		PC:     c.pc,
		SP:     c.sp,
		Stack:  c.stack,
		Opcode: c.currentOpcode,
		Cycles: c.cycles,
		State:  c.state,
	}
}

// Restore loads registers and state from a snapshot. A halted snapshot
// restores as running since the fault that caused it is not preserved.
func (c *CPU) Restore(s Snapshot) {
	c.v = s.V
	c.i = s.I
	c.pc = s.PC
	c.sp = min(s.SP, addr.StackDepth)
	c.stack = s.Stack
	c.currentOpcode = s.Opcode
	c.cycles = s.Cycles
	c.state = s.State
	c.fault = nil
	if c.state == Halted {
		c.state = Running
	}
}
