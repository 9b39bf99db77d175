package ebiten

import "github.com/valerio/go-chip8/chip8/video"

// copyFrame copies src into the backend-owned dst and expands it into RGBA
// bytes for WritePixels. The window goroutine only ever reads the copies.
func copyFrame(dst *video.FrameBuffer, pixels []byte, src *video.FrameBuffer) {
	copy(dst.ToSlice(), src.ToSlice())
	for i, px := range dst.ToSlice() {
		r, g, b, a := video.Color(px).Components()
		pixels[i*4] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
}
