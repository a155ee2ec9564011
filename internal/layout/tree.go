package layout

// Section tags a region with the part of the dashboard painted into it.
type Section int

const (
	SectionStats Section = iota
	SectionCPU
	SectionMemory
	SectionDisks
	SectionSystem
	SectionProcesses
)

func (s Section) String() string {
	switch s {
	case SectionStats:
		return "Stats"
	case SectionCPU:
		return "CPU"
	case SectionMemory:
		return "Memory"
	case SectionDisks:
		return "Disks"
	case SectionSystem:
		return "System"
	case SectionProcesses:
		return "Processes"
	default:
		return "unknown"
	}
}

// Tunables for Compute.
const (
	// StatsPercent is the share of the width given to the stats column.
	StatsPercent = 30

	CPUBasePercent    = 7
	CPUPerCorePercent = 2
	CPUMaxPercent     = 60

	// LabelPercent is the label column share inside a disk block.
	LabelPercent = 45

	// bandFloor is the smallest height (frame included) the CPU band may
	// leave to each of the other stats bands when it grows for its cores.
	bandFloor = 3
)

// Number of label/value rows in the fixed-size panels.
const (
	MemoryFieldCount = 5
	DiskFieldCount   = 5
	SystemFieldCount = 5
)

// Field is one label/value row.
type Field struct {
	Label Rect
	Value Rect
}

// CPULayout holds the CPU band. Cores has one single-line row per core that
// fits; Clipped counts the ones that did not. Synthetic is set when the core
// count was zero and a single placeholder row was reserved instead.
type CPULayout struct {
	Frame     Rect
	Global    Rect
	Cores     []Rect
	Clipped   int
	Synthetic bool
}

// PanelLayout is a framed list of label/value rows.
type PanelLayout struct {
	Frame  Rect
	Fields []Field
}

// DiskBlock is the sub-region for one disk. Fields are in the order mount
// point, name, usage, filesystem, kind; rows that don't fit are empty rects.
type DiskBlock struct {
	Frame  Rect
	Fields [DiskFieldCount]Field
}

// DisksLayout has one block per disk.
type DisksLayout struct {
	Frame  Rect
	Blocks []DiskBlock
}

// ProcessLayout is the process table.
type ProcessLayout struct {
	Frame  Rect
	Header Rect
	Rows   []Rect
}

// Region is a framed rectangle tagged with its section.
type Region struct {
	Section Section
	Rect    Rect
}

// Tree is the full partition of the screen for one frame.
type Tree struct {
	Root      Rect
	Stats     Rect
	CPU       CPULayout
	Memory    PanelLayout
	Disks     DisksLayout
	System    PanelLayout
	Processes ProcessLayout
}

// Regions lists the framed regions of the tree in paint order.
func (t Tree) Regions() []Region {
	return []Region{
		{SectionStats, t.Stats},
		{SectionCPU, t.CPU.Frame},
		{SectionMemory, t.Memory.Frame},
		{SectionDisks, t.Disks.Frame},
		{SectionSystem, t.System.Frame},
		{SectionProcesses, t.Processes.Frame},
	}
}

// Compute partitions root for a snapshot with the given number of CPU cores
// and disks.
func Compute(root Rect, cores, disks int) Tree {
	t := Tree{Root: root}

	cols := Split(root, Horizontal, []Constraint{Percentage(StatsPercent), Min(0)})
	t.Stats = cols[0]

	stats := t.Stats.Inner(1)
	cpuHeight := cpuBandHeight(stats.Height, cores)
	bands := Split(stats, Vertical, []Constraint{Length(cpuHeight), Min(0)})
	rest := fixedBands(bands[1])

	t.CPU = cpuLayout(bands[0], cores)
	t.Memory = panelLayout(rest[0], MemoryFieldCount)
	t.Disks = disksLayout(rest[1], disks)
	t.System = panelLayout(rest[2], SystemFieldCount)
	t.Processes = processLayout(cols[1])

	return t
}

// cpuBandPercent grows with the core count so that extra cores get extra
// lines instead of squeezing the rows that are already there.
func cpuBandPercent(cores int) int {
	if cores < 1 {
		cores = 1
	}
	p := CPUBasePercent + CPUPerCorePercent*cores
	if p > CPUMaxPercent {
		p = CPUMaxPercent
	}
	return p
}

func cpuBandHeight(total, cores int) int {
	h := total * cpuBandPercent(cores) / 100
	if cores < 1 {
		cores = 1
	}
	// global row + one row per core + frame
	if need := cores + 3; h < need {
		h = need
	}
	if limit := total - 3*bandFloor; h > limit {
		h = limit
	}
	if h < 0 {
		return 0
	}
	return h
}

// fixedBands splits the space under the CPU band into memory, disks and
// system in a 7:9:7 ratio, after giving each band its floor when possible.
func fixedBands(area Rect) []Rect {
	extra := area.Height - 3*bandFloor
	if extra < 0 {
		return Split(area, Vertical, []Constraint{Ratio(7, 23), Ratio(9, 23), Ratio(7, 23)})
	}
	return Split(area, Vertical, []Constraint{
		Length(bandFloor + extra*7/23),
		Length(bandFloor + extra*9/23),
		Min(bandFloor),
	})
}

func cpuLayout(frame Rect, cores int) CPULayout {
	l := CPULayout{Frame: frame}
	inner := frame.Inner(1)

	parts := Split(inner, Vertical, []Constraint{Length(1), Min(0)})
	if !parts[0].Empty() {
		l.Global = parts[0]
	}

	want := cores
	if cores < 1 {
		want = 1
		l.Synthetic = true
	}
	l.Cores = Rows(parts[1], want, 1)
	l.Clipped = want - len(l.Cores)
	return l
}

func panelLayout(frame Rect, fields int) PanelLayout {
	return PanelLayout{Frame: frame, Fields: fieldRows(frame.Inner(1), fields)}
}

func disksLayout(frame Rect, disks int) DisksLayout {
	l := DisksLayout{Frame: frame}
	if disks <= 0 {
		return l
	}

	inner := frame.Inner(1)
	each := inner.Height / disks
	constraints := make([]Constraint, disks)
	for i := range constraints {
		constraints[i] = Length(each)
	}

	l.Blocks = make([]DiskBlock, disks)
	for i, r := range Split(inner, Vertical, constraints) {
		block := DiskBlock{Frame: r}
		copy(block.Fields[:], fieldRows(r, DiskFieldCount))
		l.Blocks[i] = block
	}
	return l
}

// fieldRows splits area into a label column and a value column and pairs up
// their single-line rows.
func fieldRows(area Rect, n int) []Field {
	cols := Split(area, Horizontal, []Constraint{Percentage(LabelPercent), Min(0)})
	labels := Rows(cols[0], n, 1)
	values := Rows(cols[1], n, 1)

	if len(values) < len(labels) {
		labels = labels[:len(values)]
	}
	fields := make([]Field, len(labels))
	for i := range labels {
		fields[i] = Field{Label: labels[i], Value: values[i]}
	}
	return fields
}

func processLayout(frame Rect) ProcessLayout {
	l := ProcessLayout{Frame: frame}
	inner := frame.Inner(1)

	parts := Split(inner, Vertical, []Constraint{Length(1), Min(0)})
	if !parts[0].Empty() {
		l.Header = parts[0]
	}
	l.Rows = Rows(parts[1], parts[1].Height, 1)
	return l
}
