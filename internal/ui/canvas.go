package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/resmon/internal/layout"
)

// ErrOutOfBounds is returned when a paint targets cells outside the canvas.
var ErrOutOfBounds = errors.New("region outside canvas")

// Class is the visual role of a cell; the theme maps it to a style.
type Class int

const (
	ClassPlain Class = iota
	ClassTitle
	ClassBorder
	ClassLabel
	ClassValue
	ClassHeader
	ClassMuted
	ClassNormal
	ClassElevated
	ClassCritical
)

// Cell is one terminal cell. A zero Rune marks the right half of a wide
// character painted in the cell before it.
type Cell struct {
	Rune  rune
	Class Class
}

// Span is a run of text painted with a single class.
type Span struct {
	Text  string
	Class Class
}

// Surface is the write-only frame buffer the renderer paints into.
type Surface interface {
	Write(r layout.Rect, spans ...Span) error
	Box(r layout.Rect, title string) error
}

// Canvas is an in-memory grid of styled cells for one frame.
type Canvas struct {
	width, height int
	cells         []Cell
}

// NewCanvas returns a blank canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{width: width, height: height, cells: make([]Cell, width*height)}
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' '}
	}
	return c
}

// Bounds is the rectangle covered by the canvas.
func (c *Canvas) Bounds() layout.Rect {
	return layout.Rect{Width: c.width, Height: c.height}
}

func (c *Canvas) check(r layout.Rect) error {
	if !c.Bounds().Contains(r) {
		return fmt.Errorf("%w: %+v in %dx%d", ErrOutOfBounds, r, c.width, c.height)
	}
	return nil
}

// Cell returns the cell at x, y; out of range positions read as blank.
func (c *Canvas) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y*c.width+x]
}

func (c *Canvas) set(x, y int, r rune, class Class) {
	c.cells[y*c.width+x] = Cell{Rune: r, Class: class}
}

// Write paints spans left to right on the first row of r, clipped at its
// right edge. Zero-width runes are dropped and a wide rune that would
// straddle the edge is not painted.
func (c *Canvas) Write(r layout.Rect, spans ...Span) error {
	if err := c.check(r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}

	x := r.X
	for _, s := range spans {
		for _, ch := range s.Text {
			w := runewidth.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if x+w > r.Right() {
				return nil
			}
			c.set(x, r.Y, ch, s.Class)
			if w == 2 {
				c.set(x+1, r.Y, 0, s.Class)
			}
			x += w
		}
	}
	return nil
}

// Box draws a rounded frame around r with title embedded in the top edge.
// Rects smaller than 2x2 are left untouched.
func (c *Canvas) Box(r layout.Rect, title string) error {
	if err := c.check(r); err != nil {
		return err
	}
	if r.Width < 2 || r.Height < 2 {
		return nil
	}

	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, '─', ClassBorder)
		c.set(x, bottom, '─', ClassBorder)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, '│', ClassBorder)
		c.set(right, y, '│', ClassBorder)
	}
	c.set(r.X, r.Y, '╭', ClassBorder)
	c.set(right, r.Y, '╮', ClassBorder)
	c.set(r.X, bottom, '╰', ClassBorder)
	c.set(right, bottom, '╯', ClassBorder)

	if title == "" || r.Width <= 4 {
		return nil
	}
	return c.Write(layout.Rect{X: r.X + 2, Y: r.Y, Width: r.Width - 4, Height: 1},
		Span{Text: " " + title + " ", Class: ClassTitle})
}

// Line returns row y as plain text.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.height {
		return ""
	}
	var b strings.Builder
	for _, cell := range c.cells[y*c.width : (y+1)*c.width] {
		if cell.Rune != 0 {
			b.WriteRune(cell.Rune)
		}
	}
	return b.String()
}

// Text returns the whole canvas as plain text, one line per row.
func (c *Canvas) Text() string {
	lines := make([]string, c.height)
	for y := range lines {
		lines[y] = c.Line(y)
	}
	return strings.Join(lines, "\n")
}

// Lines renders every row with the theme, grouping runs of equal class into
// one styled string.
func (c *Canvas) Lines(theme Theme) []string {
	lines := make([]string, c.height)
	for y := range lines {
		var b, run strings.Builder
		class := ClassPlain
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(theme.Style(class).Render(run.String()))
				run.Reset()
			}
		}
		for _, cell := range c.cells[y*c.width : (y+1)*c.width] {
			if cell.Rune == 0 {
				continue
			}
			if cell.Class != class {
				flush()
				class = cell.Class
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}
