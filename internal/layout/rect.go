// Package layout partitions a terminal-sized rectangle into the regions the
// dashboard paints. Everything here is pure: the same input always yields
// the same regions and nothing is cached between calls.
package layout

// Rect is a rectangle of terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r has no printable cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Inner shrinks r by margin cells on every side. Sizes never go negative.
func (r Rect) Inner(margin int) Rect {
	in := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	if in.Width < 0 {
		in.Width = 0
	}
	if in.Height < 0 {
		in.Height = 0
	}
	return in
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r. Empty rects are
// contained everywhere.
func (r Rect) Contains(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}
