package ui

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/resmon/internal/layout"
	"github.com/Dicklesworthstone/resmon/internal/model"
	"github.com/Dicklesworthstone/resmon/internal/severity"
)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Taken: time.Unix(1700000000, 0),
		Identity: model.Identity{
			OSName:       ptr("Linux"),
			OSVersion:    ptr("6.1"),
			Architecture: "x86_64",
			Uptime:       26*time.Hour + 3*time.Minute + 4*time.Second,
		},
		CPU: model.CPU{
			Global: 90,
			Cores: []model.Core{
				{Name: "cpu0", Usage: 11},
				{Name: "cpu1", Usage: 22},
				{Name: "cpu2", Usage: 33},
				{Name: "cpu3", Usage: 44},
			},
		},
		Memory: model.NewMemory(16_000_000_000, 8_000_000_000, 2_000_000_000),
		Disks: []model.Disk{
			{Name: "nvme0n1p2", MountPoint: "/", FileSystem: "ext4", Kind: "SSD", UsedPercent: 80},
			{Name: "sda1", MountPoint: "/data", FileSystem: "xfs", Kind: "HDD", UsedPercent: 60},
		},
		Processes: []model.Process{
			{PID: 10, Name: "sleeper", Memory: 1_000_000, CPU: 5, EGID: ptr(uint32(42))},
			{PID: 20, Name: "busy", Memory: 250_000_000, CPU: 70.5, EUID: ptr(uint32(1000)), EGID: ptr(uint32(1000))},
			{PID: 5, Name: "init", Memory: 3_000_000, CPU: 5, EUID: ptr(uint32(0))},
		},
	}
}

// find locates the first occurrence of text; canvases here hold no wide runes.
func find(t *testing.T, c *Canvas, text string) (int, int) {
	t.Helper()
	for y := 0; y < c.Bounds().Height; y++ {
		line := c.Line(y)
		if i := strings.Index(line, text); i >= 0 {
			return utf8.RuneCountInString(line[:i]), y
		}
	}
	t.Fatalf("%q not found in:\n%s", text, c.Text())
	return 0, 0
}

func rowText(c *Canvas, r layout.Rect) string {
	var b strings.Builder
	for x := r.X; x < r.Right(); x++ {
		if cell := c.Cell(x, r.Y); cell.Rune != 0 {
			b.WriteRune(cell.Rune)
		}
	}
	return b.String()
}

func renderTest(t *testing.T, snap model.Snapshot, w, h int) (*Canvas, layout.Tree) {
	t.Helper()
	tree := layout.Compute(layout.Rect{Width: w, Height: h}, len(snap.CPU.Cores), len(snap.Disks))
	c := NewCanvas(w, h)
	require.NoError(t, NewRenderer("q quit").Render(c, snap, tree))
	return c, tree
}

func TestRender_SeverityTags(t *testing.T) {
	c, _ := renderTest(t, testSnapshot(), 160, 50)

	tests := []struct {
		text string
		want Class
	}{
		{"80.00%", ClassCritical},
		{"60.00%", ClassElevated},
		{"50.00%", ClassNormal},
		{"90.00%", ClassCritical},
		{"11.00%", ClassValue},
	}
	for _, tt := range tests {
		x, y := find(t, c, tt.text)
		for i := range tt.text {
			assert.Equal(t, tt.want, c.Cell(x+i, y).Class, "%s at %d", tt.text, i)
		}
	}
}

func TestRender_SeverityClassMatchesClassifier(t *testing.T) {
	for _, pct := range []float64{0, 50, 50.01, 75, 75.01, 100} {
		snap := testSnapshot()
		snap.Disks = snap.Disks[:1]
		snap.Disks[0].UsedPercent = pct

		c, tree := renderTest(t, snap, 160, 50)

		usage := tree.Disks.Blocks[0].Fields[2].Value
		assert.Equal(t, SeverityClass(severity.Classify(pct)), c.Cell(usage.X, usage.Y).Class, "pct=%v", pct)
	}
}

func TestRender_Panels(t *testing.T) {
	c, tree := renderTest(t, testSnapshot(), 160, 50)

	assert.Equal(t, "Usage", strings.TrimSpace(rowText(c, tree.Memory.Fields[0].Label)))
	assert.Equal(t, "16.00 GB", strings.TrimSpace(rowText(c, tree.Memory.Fields[1].Value)))
	assert.Equal(t, "8.00 GB", strings.TrimSpace(rowText(c, tree.Memory.Fields[2].Value)))
	assert.Equal(t, "8.00 GB", strings.TrimSpace(rowText(c, tree.Memory.Fields[3].Value)))
	assert.Equal(t, "2000.00 MB", strings.TrimSpace(rowText(c, tree.Memory.Fields[4].Value)))

	assert.Equal(t, Unavailable, strings.TrimSpace(rowText(c, tree.System.Fields[0].Value)))
	assert.Equal(t, "Linux", strings.TrimSpace(rowText(c, tree.System.Fields[1].Value)))
	assert.Equal(t, "1d 02:03:04", strings.TrimSpace(rowText(c, tree.System.Fields[4].Value)))

	disk := tree.Disks.Blocks[1]
	assert.Equal(t, "/data", strings.TrimSpace(rowText(c, disk.Fields[0].Value)))
	assert.Equal(t, "HDD", strings.TrimSpace(rowText(c, disk.Fields[4].Value)))

	for _, title := range []string{TitleStats, TitleCPU, TitleMemory, TitleDisks, TitleSystem, "Processes (3)"} {
		find(t, c, " "+title+" ")
	}
	find(t, c, " q quit ")
}

func TestRender_ProcessTable(t *testing.T) {
	snap := testSnapshot()
	c, tree := renderTest(t, snap, 160, 50)

	header := rowText(c, tree.Processes.Header)
	for _, col := range []string{"PID", "Name", "Mem (MB)", "CPU", "Uptime", "User / Group"} {
		assert.Contains(t, header, col)
	}

	rows := []string{
		rowText(c, tree.Processes.Rows[0]),
		rowText(c, tree.Processes.Rows[1]),
		rowText(c, tree.Processes.Rows[2]),
	}
	assert.Contains(t, rows[0], "busy")
	assert.Contains(t, rows[0], "70.50%")
	assert.Contains(t, rows[0], "250.00")
	assert.Contains(t, rows[0], "1000 / 1000")
	assert.Contains(t, rows[1], "init")
	assert.Contains(t, rows[1], "0 / N/A")
	assert.Contains(t, rows[2], "sleeper")
	assert.Contains(t, rows[2], "N/A / 42")
	assert.Empty(t, strings.TrimSpace(rowText(c, tree.Processes.Rows[3])))

	assert.Equal(t, int32(10), snap.Processes[0].PID, "input order is untouched")
}

func TestRender_NoCoresNoDisks(t *testing.T) {
	snap := testSnapshot()
	snap.CPU.Cores = nil
	snap.Disks = nil

	c, tree := renderTest(t, snap, 120, 40)

	require.True(t, tree.CPU.Synthetic)
	assert.Equal(t, Unavailable, strings.TrimSpace(rowText(c, tree.CPU.Cores[0])))
	assert.Empty(t, tree.Disks.Blocks)
}

func TestRender_ClippedCoresCaption(t *testing.T) {
	snap := testSnapshot()
	snap.CPU.Cores = make([]model.Core, 64)
	for i := range snap.CPU.Cores {
		snap.CPU.Cores[i] = model.Core{Name: "c", Usage: 1}
	}

	c, tree := renderTest(t, snap, 120, 30)

	require.Positive(t, tree.CPU.Clipped)
	find(t, c, "cores ")
}

func TestRender_NaNUsage(t *testing.T) {
	snap := testSnapshot()
	snap.CPU.Global = math.NaN()
	snap.CPU.Cores[0].Usage = math.NaN()
	snap.Disks[0].UsedPercent = math.NaN()
	snap.Processes[0].CPU = math.NaN()
	snap.Memory = model.NewMemory(0, 0, 0)

	var c *Canvas
	var tree layout.Tree
	require.NotPanics(t, func() {
		c, tree = renderTest(t, snap, 120, 40)
	})

	global := tree.CPU.Global
	assert.Contains(t, rowText(c, global), "NaN%")
	assert.Equal(t, ClassNormal, c.Cell(global.Right()-1, global.Y).Class, "gauge painted as normal")
	assert.Equal(t, ClassNormal, c.Cell(tree.Disks.Blocks[0].Fields[2].Value.X, tree.Disks.Blocks[0].Fields[2].Value.Y).Class)
}

func TestRender_TinyTerminals(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {1, 1}, {10, 5}, {30, 8}, {80, 24}} {
		renderTest(t, testSnapshot(), size[0], size[1])
	}
}

type failingSurface struct {
	calls int
	after int
}

var errSurface = errors.New("surface closed")

func (f *failingSurface) Write(layout.Rect, ...Span) error { return f.step() }
func (f *failingSurface) Box(layout.Rect, string) error    { return f.step() }

func (f *failingSurface) step() error {
	f.calls++
	if f.calls > f.after {
		return errSurface
	}
	return nil
}

func TestRender_StopsOnSurfaceError(t *testing.T) {
	snap := testSnapshot()
	tree := layout.Compute(layout.Rect{Width: 160, Height: 50}, 4, 2)
	s := &failingSurface{after: 3}

	err := NewRenderer("").Render(s, snap, tree)

	require.ErrorIs(t, err, errSurface)
	assert.Equal(t, 4, s.calls)
}

func TestSortProcesses(t *testing.T) {
	in := testSnapshot().Processes

	out := SortProcesses(in)

	assert.Equal(t, []int32{20, 5, 10}, []int32{out[0].PID, out[1].PID, out[2].PID})
	assert.Equal(t, []int32{10, 20, 5}, []int32{in[0].PID, in[1].PID, in[2].PID})
	assert.Empty(t, SortProcesses(nil))
}
