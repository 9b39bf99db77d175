// Package script drives the emulator from a Lua program. A script defines
// on_frame(n), which is called after every presented frame, and steers the
// machine through press, release and quit while inspecting it with peek,
// reg and pc.
package script

import (
	"fmt"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const frameHook = "on_frame"

// Machine is the part of the VM a script can inspect.
type Machine interface {
	CPU() *cpu.CPU
	Memory() *memory.Memory
	Timers() *memory.Timers
}

// Script wraps a backend, running the Lua hook after each of its updates and
// appending the input the script queued to the events it reports.
type Script struct {
	backend.Backend

	state   *lua.LState
	machine Machine
	pending []backend.InputEvent
	frame   int
}

// Load runs the Lua file at path and wraps base with it.
func Load(path string, base backend.Backend, m Machine) (*Script, error) {
	s := newScript(base, m)
	if err := s.state.DoFile(path); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("failed to load script %s: %w", path, err)
	}
	slog.Info("Loaded script", "path", path)
	return s, nil
}

// LoadString is Load for a script held in memory.
func LoadString(source string, base backend.Backend, m Machine) (*Script, error) {
	s := newScript(base, m)
	if err := s.state.DoString(source); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return s, nil
}

func newScript(base backend.Backend, m Machine) *Script {
	s := &Script{
		Backend: base,
		state:   lua.NewState(),
		machine: m,
	}

	for name, fn := range map[string]lua.LGFunction{
		"press":   s.press,
		"release": s.release,
		"quit":    s.quit,
		"peek":    s.peek,
		"reg":     s.reg,
		"pc":      s.pc,
		"log":     s.log,
	} {
		s.state.SetGlobal(name, s.state.NewFunction(fn))
	}
	return s
}

// Update presents the frame through the wrapped backend, then calls the
// script hook with the 1-based frame number.
func (s *Script) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	events, err := s.Backend.Update(frame)
	if err != nil {
		return nil, err
	}

	s.frame++
	if fn := s.state.GetGlobal(frameHook); fn.Type() == lua.LTFunction {
		err := s.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(s.frame))
		if err != nil {
			return nil, fmt.Errorf("script %s(%d) failed: %w", frameHook, s.frame, err)
		}
	}

	events = append(events, s.pending...)
	s.pending = nil
	return events, nil
}

// Cleanup closes the Lua state and the wrapped backend.
func (s *Script) Cleanup() error {
	s.state.Close()
	return s.Backend.Cleanup()
}

func (s *Script) press(L *lua.LState) int {
	s.queueKey(L, event.Press)
	return 0
}

func (s *Script) release(L *lua.LState) int {
	s.queueKey(L, event.Release)
	return 0
}

func (s *Script) queueKey(L *lua.LState, evt event.Type) {
	key := L.CheckInt(1)
	if key < 0 || key >= addr.KeyCount {
		L.ArgError(1, fmt.Sprintf("key must be between 0 and %X", addr.KeyCount-1))
		return
	}
	s.pending = append(s.pending, backend.InputEvent{Action: action.ForKey(uint8(key)), Type: evt})
}

func (s *Script) quit(L *lua.LState) int {
	s.pending = append(s.pending, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	return 0
}

func (s *Script) peek(L *lua.LState) int {
	address := L.CheckInt(1)
	if address < 0 || address > int(addr.MaxAddress) {
		L.ArgError(1, "address out of range")
		return 0
	}
	L.Push(lua.LNumber(s.machine.Memory().Peek(uint16(address))))
	return 1
}

// reg returns V0-VF by index, or I, SP, DT and ST by name.
func (s *Script) reg(L *lua.LState) int {
	c := s.machine.CPU()

	arg := L.Get(1)
	switch arg.Type() {
	case lua.LTNumber:
		x := int(lua.LVAsNumber(arg))
		if x < 0 || x >= addr.RegisterCount {
			L.ArgError(1, "register index out of range")
			return 0
		}
		L.Push(lua.LNumber(c.V(uint8(x))))
	case lua.LTString:
		var value int
		switch strings.ToLower(lua.LVAsString(arg)) {
		case "i":
			value = int(c.GetI())
		case "sp":
			value = int(c.GetSP())
		case "dt":
			value = int(s.machine.Timers().Delay())
		case "st":
			value = int(s.machine.Timers().Sound())
		default:
			L.ArgError(1, "unknown register "+lua.LVAsString(arg))
			return 0
		}
		L.Push(lua.LNumber(value))
	default:
		L.TypeError(1, lua.LTNumber)
		return 0
	}
	return 1
}

func (s *Script) pc(L *lua.LState) int {
	L.Push(lua.LNumber(s.machine.CPU().GetPC()))
	return 1
}

func (s *Script) log(L *lua.LState) int {
	slog.Info("Script", "frame", s.frame, "message", L.CheckString(1))
	return 0
}
