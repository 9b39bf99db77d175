package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	ebitenbackend "github.com/valerio/go-chip8/chip8/backend/ebiten"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	sdlbackend "github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/script"
	"github.com/valerio/go-chip8/chip8/timing"
)

// fallbackFrames is the headless run length used when no terminal is
// attached and --frames was not given.
const fallbackFrames = 600

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file, flags override its values",
		},
		cli.IntFlag{
			Name:  "hz",
			Usage: "Instructions executed per second",
			Value: chip8.DefaultConfig().ClockHz,
		},
		cli.StringFlag{
			Name:  "fg",
			Usage: "Foreground color as RRGGBB",
			Value: "FFFFFF",
		},
		cli.StringFlag{
			Name:  "bg",
			Usage: "Background color as RRGGBB",
			Value: "000000",
		},
		cli.BoolFlag{
			Name:  "invert-colors",
			Usage: "Swap foreground and background colors",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to use: terminal, sdl2, ebiten or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale for sdl2 and ebiten, pixel scale for PNG snapshots",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the debug panel on start",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "strict",
			Usage: "Halt on unknown opcodes and out of range memory accesses",
		},
		cli.BoolFlag{
			Name:  "quirk-shift-vy",
			Usage: "8XY6/8XYE shift VY into VX",
		},
		cli.BoolFlag{
			Name:  "quirk-load-store-inc",
			Usage: "FX55/FX65 advance I past the last register",
		},
		cli.BoolFlag{
			Name:  "quirk-clip-sprites",
			Usage: "Clip sprites at the screen edges instead of wrapping",
		},
		cli.BoolFlag{
			Name:  "quirk-vf-reset",
			Usage: "8XY1/8XY2/8XY3 clear VF",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Fixed random seed (0 = random)",
		},
		cli.StringFlag{
			Name:  "state-file",
			Usage: "File written by the save state key and read by the load state key",
		},
		cli.StringFlag{
			Name:  "load-state",
			Usage: "Restore a saved state before starting",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Lua script driving the emulator",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Disable sound",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "Run a ROM (default)",
			ArgsUsage: "<ROM file>",
			Action:    runEmulator,
		},
		{
			Name:      "disasm",
			Usage:     "Print the disassembly of a ROM",
			ArgsUsage: "<ROM file>",
			Action:    runDisasm,
		},
	}
	app.Action = runEmulator

	return app
}

func romPath(c *cli.Context) (string, error) {
	path := c.GlobalString("rom")
	if path == "" {
		if c.NArg() > 0 {
			path = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return "", errors.New("no ROM path provided")
		}
	}
	return path, nil
}

// settings is everything runEmulator needs, resolved from the config file
// and the flags.
type settings struct {
	vm        chip8.Config
	keyMap    input.KeyMap
	scale     int
	backend   string
	frames    int
	showDebug bool
}

func loadSettings(c *cli.Context) (settings, error) {
	s := settings{
		vm:        chip8.DefaultConfig(),
		backend:   strings.ToLower(c.GlobalString("backend")),
		frames:    c.GlobalInt("frames"),
		scale:     c.GlobalInt("scale"),
		showDebug: c.GlobalBool("debug"),
	}

	fc := fileConfig{}
	if path := c.GlobalString("config"); path != "" {
		var err error
		if fc, err = loadFileConfig(path); err != nil {
			return s, err
		}
		slog.Info("Loaded config", "path", path)
	}
	if err := fc.apply(&s.vm); err != nil {
		return s, err
	}
	if s.scale == 0 {
		s.scale = fc.Scale
	}

	keyMap, err := fc.keyMap()
	if err != nil {
		return s, err
	}
	s.keyMap = keyMap

	if c.GlobalIsSet("hz") || fc.Hz == 0 {
		s.vm.ClockHz = c.GlobalInt("hz")
	}
	if s.vm.ClockHz <= 0 {
		return s, fmt.Errorf("--hz must be positive, got %d", s.vm.ClockHz)
	}

	fg, bg := c.GlobalString("fg"), c.GlobalString("bg")
	if !c.GlobalIsSet("fg") && fc.Colors.Foreground != "" {
		fg = fc.Colors.Foreground
	}
	if !c.GlobalIsSet("bg") && fc.Colors.Background != "" {
		bg = fc.Colors.Background
	}
	s.vm.Palette, err = newPalette(fg, bg, fc.Colors.Invert || c.GlobalBool("invert-colors"))
	if err != nil {
		return s, err
	}

	s.vm.Strict = s.vm.Strict || c.GlobalBool("strict")
	s.vm.Quirks.ShiftUsesVY = s.vm.Quirks.ShiftUsesVY || c.GlobalBool("quirk-shift-vy")
	s.vm.Quirks.LoadStoreIncrementsI = s.vm.Quirks.LoadStoreIncrementsI || c.GlobalBool("quirk-load-store-inc")
	s.vm.Quirks.ClipSprites = s.vm.Quirks.ClipSprites || c.GlobalBool("quirk-clip-sprites")
	s.vm.Quirks.LogicResetsVF = s.vm.Quirks.LogicResetsVF || c.GlobalBool("quirk-vf-reset")
	s.vm.Seed = c.GlobalUint64("seed")
	s.vm.StateFile = c.GlobalString("state-file")

	if c.GlobalBool("headless") {
		s.backend = "headless"
	}
	if s.backend == "terminal" && !terminal.Available() {
		slog.Warn("No terminal attached, running headless")
		s.backend = "headless"
		if s.frames <= 0 {
			s.frames = fallbackFrames
		}
	}

	return s, nil
}

func runEmulator(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}

	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	vm, err := chip8.NewWithFile(path, s.vm)
	if err != nil {
		return err
	}

	if statePath := c.GlobalString("load-state"); statePath != "" {
		if err := vm.LoadStateFile(statePath); err != nil {
			return err
		}
	}

	var tone *audio.ToneGenerator
	if !c.GlobalBool("mute") && s.backend == "sdl2" {
		tone = audio.NewToneGenerator(audio.SampleRate)
	}

	var (
		b       backend.Backend
		limiter timing.Limiter
	)
	switch s.backend {
	case "headless":
		if s.frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(
			c.GlobalInt("snapshot-interval"), c.GlobalString("snapshot-dir"), path, snapshotScale(s.scale))
		if err != nil {
			return err
		}
		b = headless.New(s.frames, snapshotConfig)
		limiter = timing.NewNoOpLimiter()
	case "terminal":
		b = terminal.New()
		limiter = timing.NewAdaptiveLimiter()
	case "sdl2":
		if tone != nil {
			b = sdlbackend.New(tone)
		} else {
			b = sdlbackend.New(nil)
		}
		ticker := timing.NewTickerLimiter()
		defer ticker.Stop()
		limiter = ticker
	case "ebiten":
		b = ebitenbackend.New()
		ticker := timing.NewTickerLimiter()
		defer ticker.Stop()
		limiter = ticker
	default:
		return fmt.Errorf("unknown backend %q", s.backend)
	}

	if scriptPath := c.GlobalString("script"); scriptPath != "" {
		sc, err := script.Load(scriptPath, b, vm)
		if err != nil {
			return err
		}
		b = sc
	}

	if err := b.Init(backend.BackendConfig{
		Title:         "CHIP-8 - " + filepath.Base(path),
		Scale:         s.scale,
		ShowDebug:     s.showDebug,
		KeyMap:        s.keyMap,
		DebugProvider: vm,
	}); err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	switch {
	case c.GlobalBool("mute") || s.backend == "headless":
	case tone != nil:
		vm.SetBeeper(tone)
	default:
		beeper, err := audio.NewOtoBeeper()
		if err != nil {
			slog.Warn("Sound disabled", "error", err)
			break
		}
		defer beeper.Close()
		vm.SetBeeper(beeper)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = vm.Run(ctx, b, limiter)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func snapshotScale(scale int) int {
	if scale <= 0 {
		return debug.DefaultSnapshotScale
	}
	return scale
}

func runDisasm(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	mem := memory.New()
	if err := mem.LoadProgram(data); err != nil {
		return err
	}

	count := (len(data) + 1) / 2
	for _, line := range disasm.DisassembleRange(0x200, count, mem) {
		fmt.Fprintln(c.App.Writer, disasm.FormatDisassemblyLine(line, false))
	}
	return nil
}
