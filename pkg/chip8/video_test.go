package chip8

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func testDisplay() Display {
	var d Display
	d.flip(0, 0)
	d.flip(63, 31)
	return d
}

func TestDisplay_FramebufferRGBA(t *testing.T) {
	d := testDisplay()
	pixels := d.FramebufferRGBA(DefaultPalette)
	assert.Len(t, pixels, DisplayWidth*DisplayHeight*4)

	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, pixels[0:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xFF}, pixels[4:8])
	last := len(pixels) - 4
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, pixels[last:])
}

func TestDisplay_FramebufferImage(t *testing.T) {
	d := testDisplay()
	green := Palette{
		On:  color.RGBA{G: 0xC0, A: 0xFF},
		Off: color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF},
	}
	img := d.FramebufferImage(green)

	assert.Equal(t, DisplayWidth, img.Bounds().Dx())
	assert.Equal(t, DisplayHeight, img.Bounds().Dy())
	assert.Equal(t, green.On, img.RGBAAt(0, 0))
	assert.Equal(t, green.Off, img.RGBAAt(1, 0))
	assert.Equal(t, green.On, img.RGBAAt(63, 31))
}

func TestDisplay_Screenshot(t *testing.T) {
	d := testDisplay()
	var buf bytes.Buffer
	assert.NoError(t, d.Screenshot(&buf, DefaultPalette, 4))

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, DisplayWidth*4, img.Bounds().Dx())
	assert.Equal(t, DisplayHeight*4, img.Bounds().Dy())

	r, _, _, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	r, _, _, _ = img.At(4, 0).RGBA()
	assert.Equal(t, uint32(0), r)

	assert.Error(t, d.Screenshot(&buf, DefaultPalette, 0))
}

func TestDisplay_SaveScreenshot(t *testing.T) {
	d := testDisplay()
	path := filepath.Join(t.TempDir(), "shot.png")
	assert.NoError(t, d.SaveScreenshot(path, DefaultPalette, 1))
}
