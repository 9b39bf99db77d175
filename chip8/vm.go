package chip8

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrHalted is returned once the CPU has stopped on a fatal fault.
var ErrHalted = cpu.ErrHalted

// pcgStream is the fixed increment half of the PCG state.
const pcgStream = 0xda3e39cb94b95bdb

// memoryWindow is the number of bytes around PC exposed to debuggers.
const memoryWindow = 0x40

// VM is the root struct and entry point for running the emulation. It owns
// every component and is driven from a single goroutine, so it holds no locks.
type VM struct {
	config Config

	cpu     *cpu.CPU
	mem     *memory.Memory
	display *video.Display
	keypad  *memory.Keypad
	timers  *memory.Timers
	pcg     *rand.PCG

	frame  *video.FrameBuffer
	beeper audio.Beeper
	input  *input.Manager

	carry         int // instruction remainder carried between frames
	frames        uint64
	debuggerState debug.DebuggerState
	quit          bool
}

// New creates a VM in its reset state with no program loaded.
func New(config Config) *VM {
	config = config.normalized()

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	v := &VM{
		config:  config,
		mem:     memory.New(),
		display: video.NewDisplay(),
		keypad:  memory.NewKeypad(),
		timers:  &memory.Timers{},
		pcg:     rand.NewPCG(seed, pcgStream),
		frame:   video.NewFrameBuffer(),
	}
	v.timers.SoundHandler = v.onSound
	v.cpu = cpu.New(v.mem, v.display, v.keypad, v.timers, rand.New(v.pcg), cpu.Config{
		Quirks: config.Quirks,
		Strict: config.Strict,
	})
	v.input = input.NewManager(v.keypad)
	v.registerActions()
	v.frame.Render(v.display, config.Palette)

	return v
}

// NewWithFile creates a new VM and loads the ROM at path into it.
func NewWithFile(path string, config Config) (*VM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}

	v := New(config)
	if err := v.LoadProgram(data); err != nil {
		return nil, err
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))
	return v, nil
}

// LoadProgram resets the machine and places program at addr.ProgramStart.
func (v *VM) LoadProgram(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("failed to load program: %w (%d bytes, maximum is %d)",
			memory.ErrRomTooLarge, len(program), addr.MaxProgramSize)
	}
	v.Reset()
	return v.mem.LoadProgram(program)
}

// Reset returns every component to its power-on state. The loaded program
// is cleared along with the rest of memory.
func (v *VM) Reset() {
	v.mem.Reset()
	v.display.Clear()
	v.keypad.ReleaseAll()
	v.timers.SetDelay(0)
	v.timers.SetSound(0)
	v.cpu.Restore(cpu.Snapshot{PC: addr.ProgramStart})
	v.carry = 0
	v.frames = 0
	v.render()
}

// Step executes a single instruction without ticking the timers.
func (v *VM) Step() error {
	err := v.cpu.Step()
	v.render()
	return err
}

// RunUntilFrame executes one 60 Hz frame worth of instructions followed by
// one timer tick. Instructions per frame follow the configured clock, with
// the remainder carried over so the long-run rate is exact.
func (v *VM) RunUntilFrame() error {
	var n int
	n, v.carry = timing.InstructionsPerFrame(v.config.ClockHz, v.carry)

	for i := 0; i < n; i++ {
		if err := v.cpu.Step(); err != nil {
			v.render()
			return err
		}
	}

	v.TickTimers()
	v.frames++
	v.render()
	return nil
}

// TickTimers decrements the delay and sound timers once.
func (v *VM) TickTimers() {
	v.timers.Tick()
}

func (v *VM) render() {
	if v.display.TakeDirty() {
		v.frame.Render(v.display, v.config.Palette)
	}
}

// GetCurrentFrame returns the colored rendition of the display.
func (v *VM) GetCurrentFrame() *video.FrameBuffer {
	return v.frame
}

// SetBeeper wires the collaborator that plays the tone while the sound
// timer runs.
func (v *VM) SetBeeper(b audio.Beeper) {
	v.beeper = b
	if b != nil {
		b.SetActive(v.timers.SoundActive() && !v.Paused())
	}
}

func (v *VM) onSound(active bool) {
	if v.beeper != nil && !v.Paused() {
		v.beeper.SetActive(active)
	}
}

// HandleKey delivers a key-down or key-up for a hex key.
func (v *VM) HandleKey(key memory.Key, pressed bool) {
	v.keypad.Set(key, pressed)
}

// HandleAction routes an action through the input manager.
func (v *VM) HandleAction(act action.Action, pressed bool) {
	if pressed {
		v.input.Trigger(act, event.Press)
	} else {
		v.input.Trigger(act, event.Release)
	}
}

func (v *VM) registerActions() {
	v.input.On(action.EmulatorQuit, event.Press, func() {
		v.quit = true
	})
	v.input.On(action.EmulatorPauseToggle, event.Press, v.togglePause)
	v.input.On(action.EmulatorStepFrame, event.Press, func() {
		v.setDebuggerState(debug.DebuggerStepFrame)
	})
	v.input.On(action.EmulatorStepInstruction, event.Press, func() {
		v.setDebuggerState(debug.DebuggerStepInstruction)
	})
	v.input.On(action.EmulatorSaveState, event.Press, func() {
		if err := v.SaveStateFile(v.config.StateFile); err != nil {
			slog.Error("Failed to save state", "error", err)
		}
	})
	v.input.On(action.EmulatorLoadState, event.Press, func() {
		if err := v.LoadStateFile(v.config.StateFile); err != nil {
			slog.Error("Failed to load state", "error", err)
		}
	})
}

func (v *VM) togglePause() {
	if v.Paused() {
		v.setDebuggerState(debug.DebuggerRunning)
		slog.Info("Resumed")
	} else {
		v.setDebuggerState(debug.DebuggerPaused)
		slog.Info("Paused", "pc", fmt.Sprintf("0x%03X", v.cpu.GetPC()))
	}
}

func (v *VM) setDebuggerState(state debug.DebuggerState) {
	v.debuggerState = state
	if v.beeper != nil {
		v.beeper.SetActive(v.timers.SoundActive() && !v.Paused())
	}
}

// Paused reports whether the run loop is holding execution.
func (v *VM) Paused() bool {
	return v.debuggerState != debug.DebuggerRunning
}

// ExtractDebugData captures registers and the memory around PC.
func (v *VM) ExtractDebugData() *debug.Data {
	c := v.cpu
	pc := c.GetPC()

	start := uint16(0)
	if pc > memoryWindow/2 {
		start = pc - memoryWindow/2
	}

	return &debug.Data{
		CPU: &debug.CPUState{
			V:          c.Registers(),
			I:          c.GetI(),
			PC:         pc,
			SP:         c.GetSP(),
			Stack:      c.Stack(),
			DelayTimer: v.timers.Delay(),
			SoundTimer: v.timers.Sound(),
			Opcode:     c.GetOpcode(),
			Cycles:     c.GetCycles(),
			State:      c.State().String(),
		},
		Memory: &debug.MemorySnapshot{
			StartAddr: start,
			Bytes:     v.mem.Slice(start, memoryWindow),
		},
		Keys:          v.keypad.State(),
		Frame:         v.frames,
		LitPixels:     v.display.Lit(),
		DebuggerState: v.debuggerState,
	}
}

func (v *VM) CPU() *cpu.CPU           { return v.cpu }
func (v *VM) Memory() *memory.Memory  { return v.mem }
func (v *VM) Display() *video.Display { return v.display }
func (v *VM) Keypad() *memory.Keypad  { return v.keypad }
func (v *VM) Timers() *memory.Timers  { return v.timers }
func (v *VM) Config() Config          { return v.config }
func (v *VM) Frames() uint64          { return v.frames }
