package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/video"
)

// fileConfig is the YAML configuration file. Command line flags override it.
type fileConfig struct {
	Hz     int               `yaml:"hz"`
	Strict bool              `yaml:"strict"`
	Scale  int               `yaml:"scale"`
	Quirks quirkConfig       `yaml:"quirks"`
	Colors colorConfig       `yaml:"colors"`
	Keymap map[string]string `yaml:"keymap"`
}

type quirkConfig struct {
	// Preset is "vip" for the COSMAC VIP behavior, or empty.
	Preset       string `yaml:"preset"`
	ShiftVY      bool   `yaml:"shift_vy"`
	LoadStoreInc bool   `yaml:"load_store_inc"`
	ClipSprites  bool   `yaml:"clip_sprites"`
	VFReset      bool   `yaml:"vf_reset"`
}

type colorConfig struct {
	Foreground string `yaml:"fg"`
	Background string `yaml:"bg"`
	Invert     bool   `yaml:"invert"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig

	f, err := os.Open(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fc, nil
}

// apply merges the file values, colors excepted, into the VM config.
func (fc fileConfig) apply(config *chip8.Config) error {
	if fc.Hz > 0 {
		config.ClockHz = fc.Hz
	}
	config.Strict = config.Strict || fc.Strict

	quirks, err := fc.Quirks.resolve()
	if err != nil {
		return err
	}
	config.Quirks = quirks
	return nil
}

func (qc quirkConfig) resolve() (cpu.Quirks, error) {
	var q cpu.Quirks
	switch strings.ToLower(qc.Preset) {
	case "":
	case "vip":
		q = cpu.VIPQuirks
	default:
		return q, fmt.Errorf("unknown quirk preset %q", qc.Preset)
	}

	q.ShiftUsesVY = q.ShiftUsesVY || qc.ShiftVY
	q.LoadStoreIncrementsI = q.LoadStoreIncrementsI || qc.LoadStoreInc
	q.ClipSprites = q.ClipSprites || qc.ClipSprites
	q.LogicResetsVF = q.LogicResetsVF || qc.VFReset
	return q, nil
}

// newPalette parses the two colors, swapping them when invert is set.
func newPalette(fg, bg string, invert bool) (video.Palette, error) {
	foreground, err := parseColor(fg)
	if err != nil {
		return video.Palette{}, err
	}
	background, err := parseColor(bg)
	if err != nil {
		return video.Palette{}, err
	}

	p := video.Palette{Foreground: foreground, Background: background}
	if invert {
		p = p.Inverted()
	}
	return p, nil
}

func (fc fileConfig) keyMap() (input.KeyMap, error) {
	return input.NewKeyMap(fc.Keymap)
}

// parseColor reads an RGB color written as RRGGBB, optionally prefixed by
// '#' or "0x".
func parseColor(s string) (video.Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: expected RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return video.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
