package viz

import (
	"strings"
)

// brailleBlank is U+2800; the low byte of a braille rune selects its dots.
const brailleBlank rune = 0x2800

// dotBits maps a sub-pixel (row, col) within a 2×4 cell to its braille bit.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding a 2×4 dot mask. Its
// drawing resolution is Width*2 by Height*4 dots.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Width:  w,
		Height: h,
		cells:  make([]uint8, w*h),
	}
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.cells[(y/4)*c.Width+x/2] |= dotBits[y%4][x%2]
}

// Line lights every dot on the segment (x0, y0)-(x1, y1).
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}

	for e := dx + dy; ; {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Cell returns the braille rune at (col, row).
func (c *Canvas) Cell(col, row int) rune {
	return brailleBlank | rune(c.cells[row*c.Width+col])
}

// Dots reports whether any dot in the cell at (col, row) is set.
func (c *Canvas) Dots(col, row int) bool {
	return c.cells[row*c.Width+col] != 0
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
