package video

import "github.com/valerio/go-chip8/chip8/addr"

const (
	Width  = addr.DisplayWidth
	Height = addr.DisplayHeight
)

// Display is the 64x32 monochrome pixel buffer, one byte per pixel with
// values in {0,1}. Pixels are stored row-major: index = y*Width + x.
type Display struct {
	pixels [addr.DisplaySize]byte
	dirty  bool
}

// NewDisplay returns a cleared display.
func NewDisplay() *Display {
	return &Display{}
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = [addr.DisplaySize]byte{}
	d.dirty = true
}

// Pixel returns the value of the pixel at (x, y), coordinates wrap.
func (d *Display) Pixel(x, y int) byte {
	return d.pixels[index(x, y)]
}

// XorPixel toggles the pixel at (x, y) and reports whether it was on before,
// i.e. whether the write erased a lit pixel. Coordinates wrap.
func (d *Display) XorPixel(x, y int) bool {
	i := index(x, y)
	collided := d.pixels[i] == 1
	d.pixels[i] ^= 1
	d.dirty = true
	return collided
}

// Bytes returns a copy of the pixel buffer.
func (d *Display) Bytes() [addr.DisplaySize]byte {
	return d.pixels
}

// Restore replaces the pixel buffer.
func (d *Display) Restore(pixels [addr.DisplaySize]byte) {
	d.pixels = pixels
	d.dirty = true
}

// TakeDirty reports whether the display changed since the last call and resets the flag.
func (d *Display) TakeDirty() bool {
	dirty := d.dirty
	d.dirty = false
	return dirty
}

// Lit returns the number of pixels that are on.
func (d *Display) Lit() int {
	n := 0
	for _, p := range d.pixels {
		n += int(p)
	}
	return n
}

func index(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
