package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.Width
	height = video.Height

	// two display rows per terminal row
	gameAreaWidth  = width
	gameAreaHeight = height / 2

	registerHeight = 10
	disasmHeight   = 9
	minTermWidth   = gameAreaWidth + 2
	minTermHeight  = gameAreaHeight + 4
	panelWidth     = 34
)

// ErrNotTerminal is returned by Init when stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("terminal backend requires an interactive terminal")

// Available reports whether stdin and stdout are attached to a terminal.
func Available() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   *slog.LevelVar
	prevLogger *slog.Logger // restored on Cleanup
	config     backend.BackendConfig
	eventQueue []backend.InputEvent // Collect events to return
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	// For accessing emulator state
	debugProvider backend.DebugDataProvider

	currentFrame *video.FrameBuffer // Store current frame for snapshot generation
}

// New creates a new terminal backend
func New() *Backend {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	return &Backend{
		logLevel: level,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	if !Available() {
		return ErrNotTerminal
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initWithScreen(config, screen)
}

func (t *Backend) initWithScreen(config backend.BackendConfig, screen tcell.Screen) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.screen = screen
	t.running = true

	// Route logs into the side panel, the terminal belongs to the renderer now
	t.logBuffer = render.NewLogBuffer(100)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	slog.Info("Terminal backend initialized")
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals report no key-up, so a key counts as held while it repeats.
const keyTimeout = 100 * time.Millisecond

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	select {
	case <-t.signals:
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events = append(events, t.keypadEvents(now)...)

	// Add non-game input events (pause, debug, etc)
	for _, evt := range t.eventQueue {
		slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
		t.handleLocal(evt.Action)
	}
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// keypadEvents turns the timestamps of repeating keys into press, hold
// and release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
		t.screen = nil
	}
	// errors reported after shutdown must reach stderr, not the panel
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
		t.prevLogger = nil
	}
	return nil
}

// handleLocal processes the actions the terminal itself reacts to.
func (t *Backend) handleLocal(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	case action.EmulatorQuit:
		t.running = false
	}
}

// tcellKeyNameMap converts tcell keys to key names used in key maps
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

// keyName returns the key map name of a tcell key event.
func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space"
		}
		return strings.ToLower(string(ev.Rune()))
	}
	return tcellKeyNameMap[ev.Key()]
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC {
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		return
	}

	name := keyName(ev)
	if name == "" {
		return
	}
	act, ok := t.config.Lookup(name, input.DefaultKeyMap)
	if !ok {
		return
	}

	info := action.GetInfo(act)
	slog.Debug("Key event", "key", name, "action", info.Description, "category", info.Category)

	if info.Category == action.CategoryGameInput {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := gameAreaWidth + 1
	showPanel := t.config.ShowDebug && t.debugProvider != nil && termWidth > dividerX+1

	t.drawBorders(termWidth, termHeight, dividerX, showPanel)
	t.drawDisplay(frame)

	logsY := gameAreaHeight + 2
	logsWidth := termWidth
	if showPanel {
		rightPanelX := dividerX + 2
		rightPanelWidth := min(termWidth-rightPanelX, panelWidth)
		data := t.debugProvider.ExtractDebugData()
		t.drawRegisters(data, rightPanelX, 1, rightPanelWidth, termHeight)
		t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth, termHeight)
		logsWidth = dividerX
	}
	t.drawLogs(0, logsY, logsWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= maxWidth {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int, showPanel bool) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for x := 0; x < dividerX; x++ {
		t.screen.SetContent(x, gameAreaHeight+1, '─', nil, borderStyle)
	}
	t.drawText(1, 0, dividerX-1, " CHIP-8 ", titleStyle)

	levelStr := strings.ToUpper(t.logLevel.Level().String())
	t.drawText(1, gameAreaHeight+1, dividerX-1, fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelStr), titleStyle)

	if showPanel {
		for y := 0; y < termHeight-1; y++ {
			t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
		}
		t.screen.SetContent(dividerX, gameAreaHeight+1, '┤', nil, borderStyle)

		startX := dividerX + 2
		t.drawText(startX, 0, termWidth-startX, " CPU Registers ", titleStyle)
		t.drawText(startX, registerHeight+1, termWidth-startX, " Disassembly ", titleStyle)
	}

	helpText := " F10=debug SPACE=pause N=step O=frame F5=save F8=load F9=snapshot ESC=quit "
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

func toTcell(c uint32) tcell.Color {
	r, g, b, _ := video.Color(c).Components()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (t *Backend) drawDisplay(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			char, fg, bg := render.HalfBlock(frameData[y*width+x], frameData[(y+1)*width+x])
			style := tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(bg))
			t.screen.SetContent(x, y/2+1, char, nil, style)
		}
	}
}

// registerLines formats the register panel.
func registerLines(data *debug.Data) []string {
	cpu := data.CPU
	lines := []string{
		fmt.Sprintf("Status: %s  CPU: %s", strings.ToUpper(data.DebuggerState.String()), cpu.State),
	}
	for row := 0; row < 4; row++ {
		var sb strings.Builder
		for col := 0; col < 4; col++ {
			r := row*4 + col
			fmt.Fprintf(&sb, "V%X:%02X ", r, cpu.V[r])
		}
		lines = append(lines, strings.TrimSpace(sb.String()))
	}

	stack := make([]string, len(cpu.Stack))
	for i, a := range cpu.Stack {
		stack[i] = fmt.Sprintf("%03X", a)
	}

	var keys strings.Builder
	for k, pressed := range data.Keys {
		if pressed {
			fmt.Fprintf(&keys, "%X", k)
		}
	}

	lines = append(lines,
		fmt.Sprintf("I: 0x%03X  PC: 0x%03X  SP: %d", cpu.I, cpu.PC, cpu.SP),
		fmt.Sprintf("DT: %3d  ST: %3d", cpu.DelayTimer, cpu.SoundTimer),
		fmt.Sprintf("Stack: %s", strings.Join(stack, " ")),
		fmt.Sprintf("Keys: %s", keys.String()),
		fmt.Sprintf("Cycles: %d  Frame: %d", cpu.Cycles, data.Frame),
		fmt.Sprintf("Lit: %d", data.LitPixels),
	)
	return lines
}

func (t *Backend) drawRegisters(data *debug.Data, startX, startY, width, termHeight int) {
	if data == nil || data.CPU == nil || width <= 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range registerLines(data) {
		y := startY + i
		if y >= termHeight-1 || i >= registerHeight {
			break
		}
		t.drawText(startX, y, width, line, style)
	}
}

func (t *Backend) drawDisassembly(data *debug.Data, startX, startY, width, termHeight int) {
	if data == nil || data.CPU == nil || data.Memory == nil || width <= 0 {
		return
	}

	pc := data.CPU.PC
	half := disasmHeight / 2
	lines := disasm.DisassembleAround(pc, half, disasmHeight-half-1, data.Memory)

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range lines {
		y := startY + i
		if y >= termHeight-1 || i >= disasmHeight {
			break
		}
		useStyle := style
		if line.Address == pc {
			useStyle = currentStyle
		}
		t.drawText(startX, y, width, disasm.FormatDisassemblyLine(line, line.Address == pc), useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	logs := t.logBuffer.GetRecent(availableHeight)

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if len(logText) > width && width > 3 {
			logText = logText[:width-3] + "..."
		}
		t.drawText(startX, startY+i, width, logText, style)
	}
}
