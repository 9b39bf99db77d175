package cpu

import (
	"errors"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// Random is the source used by CXNN.
type Random interface {
	Uint32() uint32
}

// Config holds the construction-time options of the CPU.
type Config struct {
	Quirks Quirks
	// Strict halts on every fault. Otherwise decode and memory faults are skipped.
	Strict bool
}

// CPU holds the register file and executes instructions against the
// memory, display, keypad and timers it is wired to.
type CPU struct {
	// registers
	v     [addr.RegisterCount]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [addr.StackDepth]uint16

	// metadata
	currentOpcode uint16
	instrPC       uint16 // address the current opcode was fetched from
	cycles        uint64
	state         State
	fault         error

	quirks Quirks
	strict bool
	rng    Random

	mem     *memory.Memory
	display *video.Display
	keypad  *memory.Keypad
	timers  *memory.Timers
}

// New returns a CPU in its reset state: registers zeroed, PC at addr.ProgramStart.
func New(mem *memory.Memory, display *video.Display, keypad *memory.Keypad, timers *memory.Timers, rng Random, config Config) *CPU {
	return &CPU{
		pc:      addr.ProgramStart,
		quirks:  config.Quirks,
		strict:  config.Strict,
		rng:     rng,
		mem:     mem,
		display: display,
		keypad:  keypad,
		timers:  timers,
	}
}

// Step fetches, decodes and executes a single instruction.
// It returns ErrHalted once the CPU has stopped, or the fault that stopped it.
func (c *CPU) Step() error {
	if c.state == Halted {
		return ErrHalted
	}
	c.state = Running
	c.instrPC = c.pc

	if err := c.fetch(); err != nil {
		// nothing sensible can run after a failed fetch, even in lenient mode
		return c.halt(err)
	}

	instruction, opcode := Decode(c.currentOpcode)
	err := opcode(c, instruction)
	c.cycles++

	if err != nil {
		return c.handleFault(err)
	}
	return nil
}

// fetch reads the big-endian opcode at PC and advances PC past it.
func (c *CPU) fetch() error {
	hi, err := c.mem.Read(c.pc)
	if err != nil {
		return c.memoryFault(c.pc)
	}
	lo, err := c.mem.Read(c.pc + 1)
	if err != nil {
		return c.memoryFault(c.pc + 1)
	}

	c.currentOpcode = bit.Combine(hi, lo)
	c.pc += addr.InstructionSize
	return nil
}

func (c *CPU) handleFault(err error) error {
	var f *Fault
	if errors.As(err, &f) && !f.Fatal(c.strict) {
		slog.Debug("Ignoring fault", "fault", f.Kind, "pc", f.PC, "opcode", f.Opcode)
		return nil
	}
	return c.halt(err)
}

func (c *CPU) halt(err error) error {
	c.state = Halted
	c.fault = err
	slog.Error("CPU halted", "error", err)
	return err
}

func (c *CPU) newFault(kind FaultKind) error {
	return &Fault{Kind: kind, PC: c.instrPC, Opcode: c.currentOpcode}
}

func (c *CPU) memoryFault(address uint16) error {
	return &Fault{Kind: MemoryFault, PC: c.instrPC, Opcode: c.currentOpcode, Addr: address}
}

// checkRange returns a MemoryFault if any of the n bytes starting at base lie
// past the end of memory.
func (c *CPU) checkRange(base uint16, n int) error {
	last := int(base) + n - 1
	if n <= 0 || last <= int(addr.MaxAddress) {
		return nil
	}
	first := max(int(base), addr.MemorySize)
	return c.memoryFault(uint16(first))
}

// readAt reads base+offset, out of range bytes read as 0 and never wrap.
func (c *CPU) readAt(base uint16, offset int) uint8 {
	address := int(base) + offset
	if address > int(addr.MaxAddress) {
		return 0
	}
	return c.mem.Peek(uint16(address))
}

// writeAt writes base+offset, out of range writes are dropped and never wrap.
func (c *CPU) writeAt(base uint16, offset int, value uint8) {
	address := int(base) + offset
	if address > int(addr.MaxAddress) {
		return
	}
	_ = c.mem.Write(uint16(address), value)
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += addr.InstructionSize
	}
}

func (c *CPU) setFlag(value bool) {
	c.v[addr.FlagRegister] = bit.FromBool(value)
}

// Debug getter methods for register display
func (c *CPU) V(x uint8) uint8   { return c.v[x&0x0F] }
func (c *CPU) GetI() uint16      { return c.i }
func (c *CPU) GetPC() uint16     { return c.pc }
func (c *CPU) GetSP() uint8      { return c.sp }
func (c *CPU) GetOpcode() uint16 { return c.currentOpcode }
func (c *CPU) GetCycles() uint64 { return c.cycles }
func (c *CPU) State() State      { return c.state }
func (c *CPU) Quirks() Quirks    { return c.quirks }
func (c *CPU) Strict() bool      { return c.strict }
func (c *CPU) Registers() [addr.RegisterCount]uint8 {
	return c.v
}

// Stack returns the occupied stack slots, oldest first.
func (c *CPU) Stack() []uint16 {
	out := make([]uint16, c.sp)
	copy(out, c.stack[:c.sp])
	return out
}

// Fault returns the error that halted the CPU, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// SetRegister loads Vx.
func (c *CPU) SetRegister(x uint8, value uint8) {
	c.v[x&0x0F] = value
}

// SetI loads the index register.
func (c *CPU) SetI(value uint16) {
	c.i = value
}

// SetPC moves the program counter.
func (c *CPU) SetPC(value uint16) {
	c.pc = value
}
