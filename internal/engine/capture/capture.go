// Package capture writes frames to timestamped PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"
)

// Capture names and writes PNG files under a directory.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	seq       int
}

// New returns a Capture writing <prefix>_<timestamp>.png files into dir.
func New(dir, prefix string) *Capture {
	return &Capture{outputDir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (c *Capture) Dir() string { return c.outputDir }

// FromBottomUp writes GL-ordered pixels (origin bottom-left), flipping rows
// so the file reads top-down.
func (c *Capture) FromBottomUp(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	return c.FromImage(Flip(pixels, width, height))
}

// Flip copies bottom-up RGBA rows into a top-down image.
func Flip(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img
}

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Images already narrow enough are returned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(b.Dy()*maxWidth/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// FromImage writes img under the next generated filename.
func (c *Capture) FromImage(img image.Image) (string, error) {
	return c.Write(c.NextName(), img)
}

// Write encodes img to name, creating the output directory first.
func (c *Capture) Write(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
		name = filepath.Join(c.outputDir, name)
	}

	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return name, nil
}

// NextName returns a fresh base filename. Captures within the same second
// get a numeric suffix.
func (c *Capture) NextName() string {
	c.seq++
	stamp := c.now().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("%s_%s_%03d.png", c.prefix, stamp, c.seq)
}
