package main

import (
	"strings"

	"gochip8/pkg/chip8"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// halfBlocks is indexed by top pixel | bottom pixel<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// renderedRows is the number of terminal rows a frame occupies; every row
// shows two display lines.
const renderedRows = chip8.DisplayHeight / 2

// render draws the display with half block characters, two pixel rows per
// text line. Lines end in CRLF since the terminal is in raw mode.
func render(d *chip8.Display) string {
	var sb strings.Builder
	sb.Grow(len(cursorHome) + renderedRows*(chip8.DisplayWidth*3+2))
	sb.WriteString(cursorHome)

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := 0; x < chip8.DisplayWidth; x++ {
			idx := 0
			if d.Pixel(x, y) {
				idx |= 1
			}
			if d.Pixel(x, y+1) {
				idx |= 2
			}
			sb.WriteString(halfBlocks[idx])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
