package chip8

import (
	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/video"
)

// Config holds the construction-time options of the VM.
type Config struct {
	// ClockHz is the instruction rate. Zero selects addr.DefaultClockHz.
	ClockHz int
	// Strict halts on every fault instead of skipping decode and memory faults.
	Strict bool
	Quirks cpu.Quirks
	// Seed fixes the sequence returned by CXNN. Zero picks a random seed.
	Seed uint64
	// Palette colors the frame handed to backends. The zero value selects
	// video.DefaultPalette.
	Palette video.Palette
	// StateFile is read and written by the load and save state actions.
	StateFile string
}

// DefaultConfig returns the lenient, modern-quirk configuration at 500 Hz.
func DefaultConfig() Config {
	return Config{
		ClockHz: addr.DefaultClockHz,
		Palette: video.DefaultPalette,
	}
}

func (c Config) normalized() Config {
	if c.ClockHz <= 0 {
		c.ClockHz = addr.DefaultClockHz
	}
	if c.Palette == (video.Palette{}) {
		c.Palette = video.DefaultPalette
	}
	return c
}
