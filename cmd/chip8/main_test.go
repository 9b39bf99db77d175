package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseColor(t *testing.T) {
	testCases := []struct {
		desc    string
		input   string
		want    video.Color
		wantErr bool
	}{
		{desc: "plain", input: "33FF66", want: video.RGB(0x33, 0xFF, 0x66)},
		{desc: "lowercase", input: "ffffff", want: video.WhiteColor},
		{desc: "hash prefix", input: "#000000", want: video.BlackColor},
		{desc: "0x prefix", input: "0x102030", want: video.RGB(0x10, 0x20, 0x30)},
		{desc: "too short", input: "FFF", wantErr: true},
		{desc: "not hex", input: "GG0000", wantErr: true},
		{desc: "empty", input: "", wantErr: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, err := parseColor(tC.input)
			if tC.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tC.want, got)
		})
	}
}

func TestNewPalette(t *testing.T) {
	p, err := newPalette("FFFFFF", "000000", false)
	require.NoError(t, err)
	assert.Equal(t, video.DefaultPalette, p)

	p, err = newPalette("FFFFFF", "000000", true)
	require.NoError(t, err)
	assert.Equal(t, video.BlackColor, p.Foreground)
	assert.Equal(t, video.WhiteColor, p.Background)

	_, err = newPalette("FFFFFF", "nope", false)
	assert.Error(t, err)
}

func TestLoadFileConfig(t *testing.T) {
	path := writeFile(t, "chip8.yaml", []byte(`
hz: 700
strict: true
scale: 12
quirks:
  preset: vip
  vf_reset: true
colors:
  fg: "33FF66"
  invert: true
keymap:
  "5": "i"
`))

	fc, err := loadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 700, fc.Hz)
	assert.Equal(t, 12, fc.Scale)
	assert.Equal(t, "33FF66", fc.Colors.Foreground)
	assert.True(t, fc.Colors.Invert)

	config := chip8.DefaultConfig()
	require.NoError(t, fc.apply(&config))
	assert.Equal(t, 700, config.ClockHz)
	assert.True(t, config.Strict)
	assert.Equal(t, cpu.VIPQuirks, config.Quirks)

	km, err := fc.keyMap()
	require.NoError(t, err)
	act, ok := km.Lookup("i")
	require.True(t, ok)
	assert.Equal(t, action.Keypad5, act)
	_, ok = km.Lookup("w")
	assert.False(t, ok, "the default binding for key 5 is dropped")
}

func TestLoadFileConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := loadFileConfig(writeFile(t, "bad.yaml", []byte("speed: 9000\n")))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		fc, err := loadFileConfig(writeFile(t, "empty.yaml", nil))
		require.NoError(t, err)
		assert.Zero(t, fc.Hz)
	})

	t.Run("unknown preset", func(t *testing.T) {
		fc := fileConfig{Quirks: quirkConfig{Preset: "schip"}}
		config := chip8.DefaultConfig()
		assert.Error(t, fc.apply(&config))
	})

	t.Run("invalid keymap digit", func(t *testing.T) {
		fc := fileConfig{Keymap: map[string]string{"G": "g"}}
		_, err := fc.keyMap()
		assert.Error(t, err)
	})
}

var testROM = []byte{
	0x00, 0xE0, // CLS
	0x60, 0x00, // LD V0, 0
	0xF0, 0x29, // LD F, V0
	0xD0, 0x05, // DRW V0, V0, 5
	0x12, 0x08, // JP 0x208
}

func TestApp_Headless(t *testing.T) {
	rom := writeFile(t, "zero.ch8", testROM)
	dir := t.TempDir()

	app := newApp()
	err := app.Run([]string{"chip8",
		"--headless", "--frames", "4",
		"--snapshot-interval", "2", "--snapshot-dir", dir,
		"--fg", "33FF66", "--mute",
		rom,
	})
	require.NoError(t, err)

	for _, frame := range []string{"2", "4"} {
		matches, err := filepath.Glob(filepath.Join(dir, "zero_frame_"+frame+"_*.png"))
		require.NoError(t, err)
		assert.Len(t, matches, 1, "snapshot for frame %s", frame)
	}
}

func TestApp_HeadlessRequiresFrames(t *testing.T) {
	rom := writeFile(t, "zero.ch8", testROM)

	err := newApp().Run([]string{"chip8", "--headless", rom})
	assert.Error(t, err)
}

func TestApp_BadFlags(t *testing.T) {
	rom := writeFile(t, "zero.ch8", testROM)

	testCases := []struct {
		desc string
		args []string
	}{
		{desc: "bad color", args: []string{"--headless", "--frames", "1", "--fg", "red"}},
		{desc: "bad clock", args: []string{"--headless", "--frames", "1", "--hz", "0"}},
		{desc: "unknown backend", args: []string{"--backend", "vulkan", "--frames", "1"}},
		{desc: "missing state", args: []string{"--headless", "--frames", "1", "--load-state", "/nonexistent/state.gob"}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			args := append([]string{"chip8"}, tC.args...)
			args = append(args, rom)
			assert.Error(t, newApp().Run(args))
		})
	}
}

func TestApp_Script(t *testing.T) {
	rom := writeFile(t, "zero.ch8", testROM)
	script := writeFile(t, "quit.lua", []byte(`
function on_frame(n)
	if n == 2 then quit() end
end
`))

	err := newApp().Run([]string{"chip8", "--headless", "--frames", "100", "--script", script, rom})
	require.NoError(t, err)
}

func TestApp_Disasm(t *testing.T) {
	rom := writeFile(t, "zero.ch8", testROM)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"chip8", "disasm", rom}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "0x200: 00E0")
	assert.Contains(t, lines[0], "CLS")
	assert.Contains(t, lines[3], "DRW V0, V0, 5")
	assert.Contains(t, lines[4], "JP 0x208")
}
