package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplay_FlipWraps(t *testing.T) {
	var d Display
	assert.Equal(t, DisplayWidth, d.Width())
	assert.Equal(t, DisplayHeight, d.Height())

	assert.False(t, d.flip(DisplayWidth+1, -1))
	assert.True(t, d.Pixel(1, DisplayHeight-1))
	assert.True(t, d.Pixel(1, -1))
	assert.Equal(t, 1, d.Lit())

	assert.True(t, d.flip(1, DisplayHeight-1))
	assert.False(t, d.Pixel(1, DisplayHeight-1))
	assert.Equal(t, 0, d.Lit())
}

func TestDisplay_Clear(t *testing.T) {
	var d Display
	for x := 0; x < DisplayWidth; x += 3 {
		d.flip(x, x%DisplayHeight)
	}
	assert.True(t, d.Lit() > 0)

	d.clear()
	assert.Equal(t, 0, d.Lit())
}

func TestMachine_DisplayIsCopy(t *testing.T) {
	m := newTestMachine(t)
	d := m.Display()
	d.flip(0, 0)

	again := m.Display()
	assert.False(t, again.Pixel(0, 0))
}
