package layout

// Direction is the axis along which Split lays regions out.
type Direction int

const (
	// Horizontal places regions side by side, left to right.
	Horizontal Direction = iota
	// Vertical stacks regions top to bottom.
	Vertical
)

type constraintKind int

const (
	kindLength constraintKind = iota
	kindPercentage
	kindRatio
	kindMin
)

// Constraint sizes one region of a Split.
type Constraint struct {
	kind constraintKind
	a, b int
}

// Length is a fixed number of cells.
func Length(n int) Constraint { return Constraint{kind: kindLength, a: n} }

// Percentage is p percent of the split axis, rounded down.
func Percentage(p int) Constraint { return Constraint{kind: kindPercentage, a: p} }

// Ratio is num/den of the split axis, rounded down.
func Ratio(num, den int) Constraint { return Constraint{kind: kindRatio, a: num, b: den} }

// Min is at least n cells and grows into space nobody else claimed.
func Min(n int) Constraint { return Constraint{kind: kindMin, a: n} }

func (c Constraint) size(total int) int {
	var s int
	switch c.kind {
	case kindLength, kindMin:
		s = c.a
	case kindPercentage:
		s = total * c.a / 100
	case kindRatio:
		if c.b > 0 {
			s = total * c.a / c.b
		}
	}
	if s < 0 {
		return 0
	}
	return s
}

// Split divides area along dir, one region per constraint, in order.
//
// Sizes are resolved against the full axis, leftover space is shared by Min
// constraints, and then regions are placed one after another, each clipped
// to what is left. The last region absorbs any remainder so the regions
// always tile the area exactly.
func Split(area Rect, dir Direction, constraints []Constraint) []Rect {
	out := make([]Rect, len(constraints))
	if len(constraints) == 0 {
		return out
	}

	total := area.Height
	if dir == Horizontal {
		total = area.Width
	}
	if total < 0 {
		total = 0
	}

	sizes := make([]int, len(constraints))
	used := 0
	var grow []int
	for i, c := range constraints {
		sizes[i] = c.size(total)
		used += sizes[i]
		if c.kind == kindMin {
			grow = append(grow, i)
		}
	}
	if left := total - used; left > 0 && len(grow) > 0 {
		share := left / len(grow)
		for _, i := range grow {
			sizes[i] += share
		}
		sizes[grow[len(grow)-1]] += left - share*len(grow)
	}

	offset := 0
	for i, s := range sizes {
		if s > total-offset {
			s = total - offset
		}
		if i == len(sizes)-1 && offset+s < total {
			s = total - offset
		}
		out[i] = place(area, dir, offset, s)
		offset += s
	}
	return out
}

// Rows slices up to n consecutive rows of the given height from the top of
// area. Rows that would not fit completely are dropped, so the result may be
// shorter than n.
func Rows(area Rect, n, height int) []Rect {
	if n <= 0 || height <= 0 || area.Empty() {
		return nil
	}
	fit := area.Height / height
	if fit > n {
		fit = n
	}
	rows := make([]Rect, fit)
	for i := range rows {
		rows[i] = Rect{X: area.X, Y: area.Y + i*height, Width: area.Width, Height: height}
	}
	return rows
}

func place(area Rect, dir Direction, offset, size int) Rect {
	if dir == Horizontal {
		return Rect{X: area.X + offset, Y: area.Y, Width: size, Height: area.Height}
	}
	return Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: size}
}
