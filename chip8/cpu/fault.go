package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is an unrecognized opcode.
	ErrDecode = errors.New("decode fault")
	// ErrStackOverflow is a CALL with all 16 stack slots in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is a RET with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMemory is an access outside the 4 KiB address space.
	ErrMemory = errors.New("memory fault")
	// ErrHalted is returned by Step once the CPU has stopped.
	ErrHalted = errors.New("cpu halted")
)

// FaultKind classifies a Fault.
type FaultKind uint8

const (
	DecodeFault FaultKind = iota
	StackOverflow
	StackUnderflow
	MemoryFault
)

func (k FaultKind) String() string {
	switch k {
	case DecodeFault:
		return "DecodeFault"
	case StackOverflow:
		return "StackOverflow"
	case StackUnderflow:
		return "StackUnderflow"
	case MemoryFault:
		return "MemoryFault"
	default:
		return fmt.Sprintf("FaultKind(%d)", uint8(k))
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case DecodeFault:
		return ErrDecode
	case StackOverflow:
		return ErrStackOverflow
	case StackUnderflow:
		return ErrStackUnderflow
	default:
		return ErrMemory
	}
}

// Fault describes an error raised while executing the instruction at PC.
type Fault struct {
	Kind   FaultKind
	PC     uint16 // address of the faulting instruction
	Opcode uint16
	Addr   uint16 // offending address, MemoryFault only
}

func (f *Fault) Error() string {
	if f.Kind == MemoryFault {
		return fmt.Sprintf("%v at 0x%03X (opcode %04X): address 0x%04X", f.Unwrap(), f.PC, f.Opcode, f.Addr)
	}
	return fmt.Sprintf("%v at 0x%03X (opcode %04X)", f.Unwrap(), f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Kind.sentinel()
}

// Fatal reports whether the fault halts the CPU. Stack faults always halt,
// decode and memory faults only halt in strict mode.
func (f *Fault) Fatal(strict bool) bool {
	if strict {
		return true
	}
	return f.Kind == StackOverflow || f.Kind == StackUnderflow
}
