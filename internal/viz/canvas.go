package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of Braille cells. Each cell carries the color of the
// last dot drawn into it, and may be replaced by a glyph.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color
	Glyphs        [][]rune
	depth         [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]colorful.Color, h),
		Glyphs: make([][]rune, h),
		depth:  make([][]float64, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
		c.Glyphs[i] = make([]rune, w)
		c.depth[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return row, col, col < c.Width && row < c.Height
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	}
}

// Plot sets a pixel and tints its cell.
func (c *Canvas) Plot(x, y int, col colorful.Color) {
	if row, cl, ok := c.cell(x, y); ok {
		c.Grid[row][cl] |= rune(pixelMap[y%4][x%2])
		c.Colors[row][cl] = col
	}
}

// PlotGlyph places r in the cell covering (x, y) unless a nearer glyph
// already occupies it.
func (c *Canvas) PlotGlyph(x, y int, r rune, col colorful.Color, depth float64) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	if c.Glyphs[row][cl] != 0 && c.depth[row][cl] < depth {
		return
	}
	c.Glyphs[row][cl] = r
	c.Colors[row][cl] = col
	c.depth[row][cl] = depth
}

// Disc fills a circle of radius r sub-pixels.
func (c *Canvas) Disc(cx, cy, r int, col colorful.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Plot(cx+dx, cy+dy, col)
			}
		}
	}
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = colorful.Color{}
			c.Glyphs[i][j] = 0
			c.depth[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color) {
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
		c.Plot(x0, y0, col)
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

// At returns the rune shown in a cell: its glyph if one was placed,
// otherwise the Braille pattern.
func (c *Canvas) At(row, col int) rune {
	if g := c.Glyphs[row][col]; g != 0 {
		return g
	}
	return c.Grid[row][col]
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.At(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with each cell in its color.
func (c *Canvas) Render() string {
	var b strings.Builder
	styles := map[string]lipgloss.Style{}
	for row := range c.Grid {
		for col := range c.Grid[row] {
			r := c.At(row, col)
			if r == blank {
				b.WriteRune(' ')
				continue
			}
			hex := c.Colors[row][col].Clamped().Hex()
			st, ok := styles[hex]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[hex] = st
			}
			b.WriteString(st.Render(string(r)))
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
