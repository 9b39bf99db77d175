package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/valerio/go-chip8/chip8/video"
)

// DefaultSnapshotScale upscales the 64x32 display to something viewable.
const DefaultSnapshotScale = 8

// TakeSnapshot handles the snapshot hotkey for backends, saving to the working directory.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if err := SaveFramePNGToDir(frame, "chip8_snapshot", "", DefaultSnapshotScale); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a frame buffer into an image scaled by an integer factor
// with nearest-neighbor sampling so pixels stay crisp.
func FrameImage(frame *video.FrameBuffer, scale int) image.Image {
	w, h := frame.Width(), frame.Height()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, px := range frame.ToSlice() {
		r, g, b, a := video.Color(px).Components()
		src.Pix[i*4] = r
		src.Pix[i*4+1] = g
		src.Pix[i*4+2] = b
		src.Pix[i*4+3] = a
	}

	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WriteFramePNG encodes the frame as PNG.
func WriteFramePNG(w io.Writer, frame *video.FrameBuffer, scale int) error {
	if err := png.Encode(w, FrameImage(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory, the working directory if empty.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string, scale int) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := WriteFramePNG(file, frame, scale); err != nil {
		return err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width()*max(scale, 1), frame.Height()*max(scale, 1)), "format", "PNG")
	return nil
}

// FrameText renders the frame as text, one character per pixel, lit pixels
// being those that match the foreground color.
func FrameText(frame *video.FrameBuffer, foreground video.Color) string {
	var sb strings.Builder
	sb.Grow((frame.Width() + 1) * frame.Height())
	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			if frame.GetPixel(uint(x), uint(y)) == uint32(foreground) {
				sb.WriteRune('█')
			} else {
				sb.WriteRune('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
