package model

import "time"

// Identity describes the host. Optional fields are nil when the OS does not
// report them.
type Identity struct {
	Hostname     *string
	OSName       *string
	OSVersion    *string
	Architecture string
	Uptime       time.Duration
}

// Core is one logical CPU.
type Core struct {
	Name  string
	Usage float64 // percent 0-100
}

// CPU aggregates instantaneous CPU usage.
type CPU struct {
	Global float64 // percent 0-100
	Cores  []Core
}

// Memory captures RAM usage in bytes. Build it with NewMemory so that
// Used never exceeds Total.
type Memory struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// NewMemory clamps used to total.
func NewMemory(total, used, free uint64) Memory {
	if used > total {
		used = total
	}
	return Memory{Total: total, Used: used, Free: free}
}

// Available is Total minus Used.
func (m Memory) Available() uint64 {
	if m.Used >= m.Total {
		return 0
	}
	return m.Total - m.Used
}

// UsedPercent returns Used as a percentage of Total, 0 when Total is unknown.
func (m Memory) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used) * 100 / float64(m.Total)
}

// Disk is a mounted filesystem.
type Disk struct {
	Name        string
	MountPoint  string
	FileSystem  string
	Kind        string
	UsedPercent float64
}

// Process is a single process table entry.
type Process struct {
	PID    int32
	Name   string
	Memory uint64  // resident bytes
	CPU    float64 // percent of one core
	Uptime time.Duration
	EUID   *uint32
	EGID   *uint32
}

// Snapshot is everything sampled in one refresh. It is rebuilt from scratch
// every cycle.
type Snapshot struct {
	Taken     time.Time
	Identity  Identity
	CPU       CPU
	Memory    Memory
	Disks     []Disk
	Processes []Process
}
