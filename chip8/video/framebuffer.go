package video

// Color is a packed 0xRRGGBBAA value.
type Color uint32

const (
	WhiteColor Color = 0xFFFFFFFF
	BlackColor Color = 0x000000FF
)

// RGB builds an opaque color from its components.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF)
}

// Components returns the red, green, blue and alpha channels.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Palette maps the two pixel values onto colors.
type Palette struct {
	Foreground Color
	Background Color
}

// DefaultPalette is white pixels on black.
var DefaultPalette = Palette{Foreground: WhiteColor, Background: BlackColor}

// Inverted swaps foreground and background.
func (p Palette) Inverted() Palette {
	return Palette{Foreground: p.Background, Background: p.Foreground}
}

// FrameBuffer is a colored rendition of the display handed to backends.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer the size of the display.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  Width,
		height: Height,
		buffer: make([]uint32, Width*Height),
	}
}

func (fb FrameBuffer) Width() int  { return int(fb.width) }
func (fb FrameBuffer) Height() int { return int(fb.height) }

func (fb FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color Color) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Render paints the display into the frame buffer using the palette.
func (fb *FrameBuffer) Render(d *Display, p Palette) {
	for i, px := range d.pixels {
		if px == 1 {
			fb.buffer[i] = uint32(p.Foreground)
		} else {
			fb.buffer[i] = uint32(p.Background)
		}
	}
}
