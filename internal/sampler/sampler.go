// Package sampler reads host metrics through gopsutil and keeps the latest
// snapshot for the dashboard.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/resmon/internal/logger"
	"github.com/Dicklesworthstone/resmon/internal/model"
)

// Disk kinds derived from the block layer's rotational flag.
const (
	KindSSD     = "SSD"
	KindHDD     = "HDD"
	KindUnknown = "Unknown"
)

const defaultSysBlock = "/sys/class/block"

type procTimes struct {
	total float64 // user+system seconds
	at    time.Time
}

// Sampler builds a model.Snapshot on every Refresh. CPU usage is the delta
// of cumulative times between two refreshes, so the first snapshot reports
// zero for every core.
type Sampler struct {
	log      logger.Logger
	sysBlock string

	prevTotal float64
	prevIdle  float64
	prevCore  []cpu.TimesStat
	prevProc  map[int32]procTimes

	mu   sync.RWMutex
	snap model.Snapshot
}

// New returns a Sampler with an empty snapshot.
func New(log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{
		log:      log,
		sysBlock: defaultSysBlock,
		prevProc: make(map[int32]procTimes),
	}
}

// Snapshot returns the result of the last Refresh.
func (s *Sampler) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Refresh samples every metric group. A failing group leaves its part of the
// snapshot empty; the joined errors are returned after the snapshot is stored.
func (s *Sampler) Refresh(ctx context.Context) error {
	now := time.Now()
	var errs []error

	identity, err := s.identity(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	cpuStat, err := s.cpuPercents(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	memory, err := s.memory(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	disks, err := s.disks(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	procs, err := s.processes(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	snap := model.Snapshot{
		Taken:     now,
		Identity:  identity,
		CPU:       cpuStat,
		Memory:    memory,
		Disks:     disks,
		Processes: procs,
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.log.Debug("sampled %d cores, %d disks, %d processes in %s",
		len(cpuStat.Cores), len(disks), len(procs), time.Since(now).Round(time.Millisecond))
	return errors.Join(errs...)
}

func (s *Sampler) identity(ctx context.Context) (model.Identity, error) {
	id := model.Identity{Architecture: runtime.GOARCH}
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return id, fmt.Errorf("host info: %w", err)
	}
	id.Hostname = optional(info.Hostname)
	id.OSName = optional(info.Platform)
	if id.OSName == nil {
		id.OSName = optional(info.OS)
	}
	id.OSVersion = optional(info.PlatformVersion)
	if info.KernelArch != "" {
		id.Architecture = info.KernelArch
	}
	id.Uptime = time.Duration(info.Uptime) * time.Second
	return id, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// cpuPercents computes global and per-core usage from times deltas.
func (s *Sampler) cpuPercents(ctx context.Context) (model.CPU, error) {
	var out model.CPU

	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return out, fmt.Errorf("cpu times: %w", err)
	}
	if len(times) > 0 {
		cur := times[0]
		curTotal := cur.Total()
		curIdle := cur.Idle + cur.Iowait
		if s.prevTotal > 0 {
			out.Global = busyPercent(curTotal-s.prevTotal, curIdle-s.prevIdle)
		}
		s.prevTotal, s.prevIdle = curTotal, curIdle
	}

	coreTimes, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return out, fmt.Errorf("per-core cpu times: %w", err)
	}
	out.Cores = make([]model.Core, len(coreTimes))
	for i, c := range coreTimes {
		out.Cores[i].Name = c.CPU
		if i >= len(s.prevCore) || s.prevCore[i].CPU != c.CPU {
			continue
		}
		prev := s.prevCore[i]
		out.Cores[i].Usage = busyPercent(c.Total()-prev.Total(),
			(c.Idle+c.Iowait)-(prev.Idle+prev.Iowait))
	}
	s.prevCore = coreTimes
	return out, nil
}

// busyPercent is the non-idle share of an interval, clamped to 0-100.
func busyPercent(total, idle float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := 100 * (1 - idle/total)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *Sampler) memory(ctx context.Context) (model.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	return model.NewMemory(vm.Total, vm.Used, vm.Free), nil
}

func (s *Sampler) disks(ctx context.Context) ([]model.Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}
	out := make([]model.Disk, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			s.log.Debug("skip %s: %v", p.Mountpoint, err)
			continue
		}
		name := filepath.Base(p.Device)
		out = append(out, model.Disk{
			Name:        name,
			MountPoint:  p.Mountpoint,
			FileSystem:  p.Fstype,
			Kind:        diskKind(s.sysBlock, name),
			UsedPercent: usage.UsedPercent,
		})
	}
	return out, nil
}

// diskKind reads the rotational flag of a block device. Partitions have no
// queue directory of their own, so the parent device is tried next.
func diskKind(sysBlock, dev string) string {
	if dev == "" || dev == "." || dev == "/" {
		return KindUnknown
	}
	link := filepath.Join(sysBlock, dev)
	candidates := []string{filepath.Join(link, "queue", "rotational")}
	if target, err := filepath.EvalSymlinks(link); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(target), "queue", "rotational"))
	}
	for _, path := range candidates {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(string(b)) {
		case "0":
			return KindSSD
		case "1":
			return KindHDD
		}
	}
	return KindUnknown
}

func (s *Sampler) processes(ctx context.Context, now time.Time) ([]model.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("process list: %w", err)
	}

	seen := make(map[int32]procTimes, len(procs))
	out := make([]model.Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// exited between listing and reading
			continue
		}
		entry := model.Process{PID: p.Pid, Name: name}

		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			entry.Memory = mi.RSS
		}
		if created, err := p.CreateTimeWithContext(ctx); err == nil && created > 0 {
			if up := now.Sub(time.UnixMilli(created)); up > 0 {
				entry.Uptime = up
			}
		}
		if t, err := p.TimesWithContext(ctx); err == nil && t != nil {
			cur := procTimes{total: t.User + t.System, at: now}
			if prev, ok := s.prevProc[p.Pid]; ok {
				entry.CPU = procPercent(prev, cur)
			} else if pct, err := p.CPUPercentWithContext(ctx); err == nil {
				entry.CPU = pct
			}
			seen[p.Pid] = cur
		}
		if uids, err := p.UidsWithContext(ctx); err == nil && len(uids) > 1 {
			euid := uint32(uids[1])
			entry.EUID = &euid
		}
		if gids, err := p.GidsWithContext(ctx); err == nil && len(gids) > 1 {
			egid := uint32(gids[1])
			entry.EGID = &egid
		}
		out = append(out, entry)
	}
	s.prevProc = seen
	return out, nil
}

// procPercent is CPU seconds used between two readings as a percent of one
// core. It can exceed 100 for multi-threaded processes.
func procPercent(prev, cur procTimes) float64 {
	elapsed := cur.at.Sub(prev.at).Seconds()
	used := cur.total - prev.total
	if elapsed <= 0 || used <= 0 {
		return 0
	}
	return 100 * used / elapsed
}
