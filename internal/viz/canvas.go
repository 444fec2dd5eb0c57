package viz

import (
	"math"
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

const blank = rune(0x2800)

// shades is the number of brightness steps a cell can take.
const shades = 8

// Canvas is a braille dot grid that also remembers the brightest opacity
// drawn into each cell. It implements field.Surface: coordinates arrive in
// virtual pixels and are scaled down to dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Level         [][]float64

	// virtual pixels per dot
	ScaleX, ScaleY float64
}

// NewCanvas builds a w x h cell canvas where one cell stands for cellW x
// cellH virtual pixels.
func NewCanvas(w, h int, cellW, cellH float64) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Level:  make([][]float64, h),
		ScaleX: cellW / 2,
		ScaleY: cellH / 4,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Level[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// Set sets a dot at (x, y) in dot coordinates with the given opacity.
// The canvas size in dots is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, opacity float64) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if opacity > c.Level[row][col] {
		c.Level[row][col] = math.Min(opacity, 1)
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Level[i][j] = 0
		}
	}
}

// Dot draws a filled disc centred on the virtual pixel (x, y).
func (c *Canvas) Dot(x, y, radius, opacity float64) {
	cx := int(x / c.ScaleX)
	cy := int(y / c.ScaleY)
	rx := int(radius / c.ScaleX)
	ry := int(radius / c.ScaleY)
	if rx == 0 && ry == 0 {
		c.Set(cx, cy, opacity)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if rx > 0 && ry > 0 && float64(dx*dx)/float64(rx*rx)+float64(dy*dy)/float64(ry*ry) > 1 {
				continue
			}
			c.Set(cx+dx, cy+dy, opacity)
		}
	}
}

// Streak draws a line from head to tail whose opacity fades linearly to
// zero at the tail.
func (c *Canvas) Streak(hx, hy, tx, ty, opacity float64) {
	x0, y0 := int(hx/c.ScaleX), int(hy/c.ScaleY)
	x1, y1 := int(tx/c.ScaleX), int(ty/c.ScaleY)
	steps := max(absInt(x1-x0), absInt(y1-y0))
	i := 0
	c.line(x0, y0, x1, y1, func(x, y int) {
		a := opacity
		if steps > 0 {
			a = opacity * (1 - float64(i)/float64(steps))
		}
		i++
		if a > 0.02 {
			c.Set(x, y, a)
		}
	})
}

// line walks the dots between two points using Bresenham's algorithm.
func (c *Canvas) line(x0, y0, x1, y1 int, plot func(x, y int)) {
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
		plot(x0, y0)
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

// Lit counts cells holding at least one dot.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Spotlight brightens cells inside an ellipse around the pointer.
type Spotlight struct {
	Col, Row int
	RadiusX  int
	RadiusY  int
	On       bool
}

func (s Spotlight) covers(col, row int) bool {
	if !s.On || s.RadiusX <= 0 || s.RadiusY <= 0 {
		return false
	}
	dx := float64(col-s.Col) / float64(s.RadiusX)
	dy := float64(row-s.Row) / float64(s.RadiusY)
	return dx*dx+dy*dy <= 1
}

// Palette holds one lipgloss style per brightness step.
type Palette [shades + 1]lipgloss.Style

// NewPalette blends from the background to the particle colour.
func NewPalette(th Theme) Palette {
	var p Palette
	bg, err := colorful.Hex(string(th.Background))
	if err != nil {
		bg = colorful.Color{}
	}
	fg, err := colorful.Hex(string(th.Particle))
	if err != nil {
		fg = colorful.Color{R: 1, G: 1, B: 1}
	}
	for i := range p {
		t := 0.25 + 0.75*float64(i)/float64(shades)
		p[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(bg.BlendLab(fg, t).Clamped().Hex()))
	}
	return p
}

func (c *Canvas) shade(col, row int, spot Spotlight) int {
	s := int(math.Round(c.Level[row][col] * shades))
	if spot.covers(col, row) {
		s += shades / 3
	}
	return min(s, shades)
}

// RenderRange renders cells [from, to) of one row, grouping runs of the
// same shade into a single styled segment.
func (c *Canvas) RenderRange(row, from, to int, p *Palette, spot Spotlight) string {
	if row < 0 || row >= c.Height {
		return ""
	}
	from = max(from, 0)
	to = min(to, c.Width)
	if from >= to {
		return ""
	}

	var b strings.Builder
	var run []rune
	cur := -1
	flush := func() {
		if len(run) == 0 {
			return
		}
		b.WriteString(p[cur].Render(string(run)))
		run = run[:0]
	}
	for col := from; col < to; col++ {
		r := c.Grid[row][col]
		s := 0
		if r != blank {
			s = c.shade(col, row, spot)
		}
		if s != cur {
			flush()
			cur = s
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
