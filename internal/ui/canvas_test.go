package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/resmon/internal/layout"
)

func TestCanvas_Blank(t *testing.T) {
	c := NewCanvas(4, 2)

	assert.Equal(t, layout.Rect{Width: 4, Height: 2}, c.Bounds())
	assert.Equal(t, "    \n    ", c.Text())
	assert.Equal(t, Cell{Rune: ' '}, c.Cell(9, 9))
}

func TestCanvas_WriteClips(t *testing.T) {
	c := NewCanvas(10, 2)

	require.NoError(t, c.Write(layout.Rect{X: 2, Y: 1, Width: 4, Height: 1},
		Span{Text: "ab", Class: ClassLabel},
		Span{Text: "cdef", Class: ClassValue},
	))

	assert.Equal(t, "          ", c.Line(0))
	assert.Equal(t, "  abcd    ", c.Line(1))
	assert.Equal(t, ClassLabel, c.Cell(3, 1).Class)
	assert.Equal(t, ClassValue, c.Cell(4, 1).Class)
	assert.Equal(t, ClassPlain, c.Cell(6, 1).Class)
}

func TestCanvas_WriteWideRunes(t *testing.T) {
	c := NewCanvas(3, 1)

	require.NoError(t, c.Write(layout.Rect{Width: 3, Height: 1}, Span{Text: "世界", Class: ClassValue}))

	assert.Equal(t, '世', c.Cell(0, 0).Rune)
	assert.Equal(t, rune(0), c.Cell(1, 0).Rune)
	assert.Equal(t, ' ', c.Cell(2, 0).Rune)
	assert.Equal(t, "世 ", c.Line(0))
}

func TestCanvas_WriteDropsControlRunes(t *testing.T) {
	c := NewCanvas(4, 1)

	require.NoError(t, c.Write(layout.Rect{Width: 4, Height: 1}, Span{Text: "a\tb\x1b"}))

	assert.Equal(t, "ab  ", c.Line(0))
}

func TestCanvas_OutOfBounds(t *testing.T) {
	c := NewCanvas(10, 2)
	before := c.Text()

	err := c.Write(layout.Rect{X: 8, Width: 5, Height: 1}, Span{Text: "xxxxx"})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	err = c.Box(layout.Rect{Y: 1, Width: 3, Height: 2}, "x")
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Equal(t, before, c.Text())
}

func TestCanvas_EmptyRectIsNoop(t *testing.T) {
	c := NewCanvas(2, 1)

	assert.NoError(t, c.Write(layout.Rect{}, Span{Text: "zz"}))
	assert.Equal(t, "  ", c.Line(0))
}

func TestCanvas_Box(t *testing.T) {
	c := NewCanvas(12, 3)

	require.NoError(t, c.Box(c.Bounds(), "CPU"))

	assert.Equal(t, "╭─ CPU ────╮", c.Line(0))
	assert.Equal(t, "│          │", c.Line(1))
	assert.Equal(t, "╰──────────╯", c.Line(2))
	assert.Equal(t, ClassBorder, c.Cell(0, 0).Class)
	assert.Equal(t, ClassTitle, c.Cell(3, 0).Class)
}

func TestCanvas_BoxTooSmall(t *testing.T) {
	c := NewCanvas(3, 3)

	require.NoError(t, c.Box(layout.Rect{Width: 1, Height: 3}, "x"))
	require.NoError(t, c.Box(layout.Rect{Width: 3, Height: 1}, "x"))

	assert.Equal(t, "   \n   \n   ", c.Text())
}

func TestCanvas_LinesKeepWidth(t *testing.T) {
	c := NewCanvas(20, 4)
	require.NoError(t, c.Box(c.Bounds(), "Memory"))
	require.NoError(t, c.Write(layout.Rect{X: 1, Y: 1, Width: 18, Height: 1},
		Span{Text: "Usage ", Class: ClassLabel},
		Span{Text: "91.00%", Class: ClassCritical},
	))

	lines := c.Lines(DefaultTheme())

	require.Len(t, lines, 4)
	for y, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line), "row %d", y)
	}
	assert.Contains(t, lines[1], "91.00%")
}
