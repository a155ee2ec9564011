package ui

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/resmon/internal/layout"
	"github.com/Dicklesworthstone/resmon/internal/model"
	"github.com/Dicklesworthstone/resmon/internal/severity"
)

// Section titles.
const (
	TitleStats     = "Stats"
	TitleCPU       = "CPU"
	TitleMemory    = "Memory"
	TitleDisks     = "Disks"
	TitleSystem    = "System"
	TitleProcesses = "Processes"
)

var (
	memoryLabels = [layout.MemoryFieldCount]string{"Usage", "Total", "Available", "Used", "Free"}
	diskLabels   = [layout.DiskFieldCount]string{"Mount", "Name", "Usage", "FS", "Kind"}
	systemLabels = [layout.SystemFieldCount]string{"Host", "OS", "Version", "Arch", "Uptime"}
)

// Process table columns, name takes whatever width is left.
var processColumns = []struct {
	title string
	width int
	right bool
}{
	{"PID", 7, true},
	{"Name", 0, false},
	{"Mem (MB)", 10, true},
	{"CPU", 8, true},
	{"Uptime", 12, true},
	{"User / Group", 13, false},
}

const (
	minNameWidth = 8
	minGauge     = 4
	globalLabel  = "Total"
)

// Renderer paints snapshots onto a Surface following a layout tree.
type Renderer struct {
	// Hint is shown in the bottom edge of the process frame.
	Hint string
}

// NewRenderer returns a renderer with the given footer hint.
func NewRenderer(hint string) *Renderer {
	return &Renderer{Hint: hint}
}

// painter carries the first error so that the section renderers stay linear.
type painter struct {
	s   Surface
	err error
}

func (p *painter) box(r layout.Rect, title string) {
	if p.err == nil {
		p.err = p.s.Box(r, title)
	}
}

func (p *painter) write(r layout.Rect, spans ...Span) {
	if p.err == nil {
		p.err = p.s.Write(r, spans...)
	}
}

func (p *painter) field(f layout.Field, label string, spans ...Span) {
	p.write(f.Label, Span{Text: label, Class: ClassLabel})
	p.write(f.Value, spans...)
}

// Render paints one full frame. The snapshot is not modified.
func (r *Renderer) Render(s Surface, snap model.Snapshot, tree layout.Tree) error {
	p := &painter{s: s}
	p.box(tree.Stats, TitleStats)
	r.cpu(p, snap.CPU, tree.CPU)
	r.memory(p, snap.Memory, tree.Memory)
	r.disks(p, snap.Disks, tree.Disks)
	r.system(p, snap.Identity, tree.System)
	r.processes(p, snap.Processes, tree.Processes)
	if p.err != nil {
		return fmt.Errorf("render frame: %w", p.err)
	}
	return nil
}

func (r *Renderer) cpu(p *painter, cpu model.CPU, l layout.CPULayout) {
	p.box(l.Frame, TitleCPU)

	labelWidth := runewidth.StringWidth(globalLabel)
	for _, c := range cpu.Cores {
		if w := runewidth.StringWidth(c.Name); w > labelWidth {
			labelWidth = w
		}
	}
	labelWidth++

	meter(p, l.Global, padRight(globalLabel, labelWidth), cpu.Global, SeverityClass(severity.Classify(cpu.Global)))

	if l.Synthetic {
		if len(l.Cores) > 0 {
			p.write(l.Cores[0], Span{Text: Unavailable, Class: ClassMuted})
		}
		return
	}
	for i, row := range l.Cores {
		if i >= len(cpu.Cores) {
			break
		}
		c := cpu.Cores[i]
		meter(p, row, padRight(c.Name, labelWidth), c.Usage, ClassValue)
	}
	if l.Clipped > 0 {
		caption(p, l.Frame, fmt.Sprintf("+%d cores", l.Clipped))
	}
}

// meter writes "label value bar" on one row, the bar only when it fits.
func meter(p *painter, row layout.Rect, label string, pct float64, class Class) {
	value := FormatPercent(pct)
	spans := []Span{
		{Text: label, Class: ClassLabel},
		{Text: padLeft(value, 7), Class: class},
	}
	rest := row.Width - runewidth.StringWidth(label) - 8
	if rest >= minGauge {
		barClass := class
		if barClass == ClassValue {
			barClass = ClassMuted
		}
		spans = append(spans, Span{Text: " "}, Span{Text: gaugeBar(pct, rest), Class: barClass})
	}
	p.write(row, spans...)
}

func caption(p *painter, frame layout.Rect, text string) {
	if frame.Width <= 4 || frame.Height < 2 {
		return
	}
	p.write(layout.Rect{X: frame.X + 2, Y: frame.Bottom() - 1, Width: frame.Width - 4, Height: 1},
		Span{Text: " " + text + " ", Class: ClassMuted})
}

func (r *Renderer) memory(p *painter, m model.Memory, l layout.PanelLayout) {
	p.box(l.Frame, TitleMemory)

	pct := m.UsedPercent()
	class := SeverityClass(severity.Classify(pct))
	usage := []Span{{Text: FormatPercent(pct), Class: class}}
	if len(l.Fields) > 0 {
		if rest := l.Fields[0].Value.Width - 8; rest >= minGauge {
			usage = append(usage, Span{Text: " "}, Span{Text: gaugeBar(pct, rest), Class: class})
		}
	}
	values := [layout.MemoryFieldCount][]Span{
		usage,
		{{Text: FormatGB(m.Total), Class: ClassValue}},
		{{Text: FormatGB(m.Available()), Class: ClassValue}},
		{{Text: FormatGB(m.Used), Class: ClassValue}},
		{{Text: FormatMB(m.Free), Class: ClassValue}},
	}
	for i, f := range l.Fields {
		if i >= len(values) {
			break
		}
		p.field(f, memoryLabels[i], values[i]...)
	}
}

func (r *Renderer) disks(p *painter, disks []model.Disk, l layout.DisksLayout) {
	p.box(l.Frame, TitleDisks)

	for i, block := range l.Blocks {
		if i >= len(disks) {
			break
		}
		d := disks[i]
		values := [layout.DiskFieldCount]Span{
			{Text: orUnavailable(d.MountPoint), Class: ClassValue},
			{Text: orUnavailable(d.Name), Class: ClassValue},
			{Text: FormatPercent(d.UsedPercent), Class: SeverityClass(severity.Classify(d.UsedPercent))},
			{Text: orUnavailable(d.FileSystem), Class: ClassValue},
			{Text: orUnavailable(d.Kind), Class: ClassValue},
		}
		for j, f := range block.Fields {
			p.field(f, diskLabels[j], values[j])
		}
	}
}

func (r *Renderer) system(p *painter, id model.Identity, l layout.PanelLayout) {
	p.box(l.Frame, TitleSystem)

	values := [layout.SystemFieldCount]string{
		FormatOptional(id.Hostname),
		FormatOptional(id.OSName),
		FormatOptional(id.OSVersion),
		orUnavailable(id.Architecture),
		FormatUptime(id.Uptime),
	}
	for i, f := range l.Fields {
		if i >= len(values) {
			break
		}
		p.field(f, systemLabels[i], Span{Text: values[i], Class: ClassValue})
	}
}

// SortProcesses returns a copy of procs ordered by CPU usage, highest first,
// with ties broken by PID.
func SortProcesses(procs []model.Process) []model.Process {
	out := make([]model.Process, len(procs))
	copy(out, procs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CPU != out[j].CPU {
			return out[i].CPU > out[j].CPU
		}
		return out[i].PID < out[j].PID
	})
	return out
}

func columnWidths(total int) []int {
	widths := make([]int, len(processColumns))
	fixed := 0
	for i, c := range processColumns {
		widths[i] = c.width
		fixed += c.width + 1
	}
	name := total - fixed + 1
	if name < minNameWidth {
		name = minNameWidth
	}
	widths[1] = name
	return widths
}

func tableRow(cells []string, widths []int) string {
	var out string
	for i, c := range processColumns {
		if i > 0 {
			out += " "
		}
		if c.right {
			out += padLeft(cells[i], widths[i])
		} else {
			out += padRight(cells[i], widths[i])
		}
	}
	return out
}

func (r *Renderer) processes(p *painter, procs []model.Process, l layout.ProcessLayout) {
	p.box(l.Frame, fmt.Sprintf("%s (%d)", TitleProcesses, len(procs)))

	widths := columnWidths(l.Header.Width)
	headers := make([]string, len(processColumns))
	for i, c := range processColumns {
		headers[i] = c.title
	}
	p.write(l.Header, Span{Text: tableRow(headers, widths), Class: ClassHeader})

	sorted := SortProcesses(procs)
	for i, row := range l.Rows {
		if i >= len(sorted) {
			break
		}
		proc := sorted[i]
		cells := []string{
			fmt.Sprintf("%d", proc.PID),
			orUnavailable(proc.Name),
			FormatProcessMemory(proc.Memory),
			FormatPercent(proc.CPU),
			FormatUptime(proc.Uptime),
			FormatOwner(proc.Owner()),
		}
		p.write(row, Span{Text: tableRow(cells, widths), Class: ClassValue})
	}

	if r.Hint != "" {
		caption(p, l.Frame, r.Hint)
	}
}
