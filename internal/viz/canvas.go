package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels with y growing downward.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath fits pts into the canvas, keeping the aspect ratio, and joins
// consecutive points. Non-finite points break the path.
func (c *Canvas) DrawPath(pts [][2]float64) {
	b, ok := boundsOf(pts)
	if !ok {
		return
	}
	pw, ph := float64(c.Width*2-1), float64(c.Height*4-1)
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	scale := math.Min(pw, ph) / span
	offX := (pw - (b.maxX-b.minX)*scale) / 2
	offY := (ph - (b.maxY-b.minY)*scale) / 2

	px := func(p [2]float64) (int, int) {
		x := offX + (p[0]-b.minX)*scale
		y := ph - (offY + (p[1]-b.minY)*scale)
		return int(math.Round(x)), int(math.Round(y))
	}

	prevOK := false
	var lx, ly int
	for _, p := range pts {
		if !finite2(p) {
			prevOK = false
			continue
		}
		x, y := px(p)
		if prevOK {
			c.DrawLine(lx, ly, x, y)
		} else {
			c.Set(x, y)
		}
		lx, ly, prevOK = x, y, true
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func boundsOf(pts [][2]float64) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, p := range pts {
		if !finite2(p) {
			continue
		}
		found = true
		b.minX, b.maxX = math.Min(b.minX, p[0]), math.Max(b.maxX, p[0])
		b.minY, b.maxY = math.Min(b.minY, p[1]), math.Max(b.maxY, p[1])
	}
	return b, found
}

func finite2(p [2]float64) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) && !math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
