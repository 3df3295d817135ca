package chip8

import "gochip8/pkg/grid"

// Display is the 64x32 monochrome frame buffer, stored row-major. The
// interpreter owns the canonical buffer; Machine.Display hands out copies.
type Display [DisplayWidth * DisplayHeight]bool

// Width returns the number of pixel columns.
func (d *Display) Width() int { return DisplayWidth }

// Height returns the number of pixel rows.
func (d *Display) Height() int { return DisplayHeight }

// Pixel reports whether the pixel at x, y is lit. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	return d[d.index(x, y)]
}

// Lit returns the number of lit pixels.
func (d *Display) Lit() int {
	n := 0
	for _, on := range d {
		if on {
			n++
		}
	}
	return n
}

func (d *Display) clear() {
	*d = Display{}
}

// flip XORs the pixel at x, y and reports whether it was lit before.
func (d *Display) flip(x, y int) bool {
	i := d.index(x, y)
	was := d[i]
	d[i] = !was
	return was
}

func (d *Display) index(x, y int) int {
	return grid.GetGridIndex(grid.Wrap(x, DisplayWidth), grid.Wrap(y, DisplayHeight), DisplayWidth)
}
