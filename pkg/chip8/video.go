package chip8

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"gochip8/pkg/grid"
)

// Palette selects the colors used for lit and unlit pixels.
type Palette struct {
	On  color.RGBA
	Off color.RGBA
}

// DefaultPalette draws white pixels on black.
var DefaultPalette = Palette{
	On:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Off: color.RGBA{A: 0xFF},
}

// FramebufferRGBA renders the display into a 64×32 RGBA8888 byte slice
// (length 64*32*4 = 8192), suitable for ebiten's WritePixels.
func (d *Display) FramebufferRGBA(p Palette) []byte {
	return d.FramebufferImage(p).Pix
}

// FramebufferImage returns the display as an *image.RGBA.
func (d *Display) FramebufferImage(p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, DisplayWidth, DisplayHeight))
	for i, on := range d {
		c := p.Off
		if on {
			c = p.On
		}
		x, y := grid.GetGridCoords(i, DisplayWidth)
		img.SetRGBA(x, y, c)
	}
	return img
}

// Screenshot encodes the display as a PNG scaled up by scale using
// nearest-neighbour sampling, so every Chip-8 pixel stays a sharp square.
func (d *Display) Screenshot(w io.Writer, p Palette, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid screenshot scale %d", scale)
	}

	src := d.FramebufferImage(p)
	dst := image.NewRGBA(image.Rect(0, 0, DisplayWidth*scale, DisplayHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SaveScreenshot writes a PNG screenshot of the display to filename.
func (d *Display) SaveScreenshot(filename string, p Palette, scale int) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := d.Screenshot(f, p, scale); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
