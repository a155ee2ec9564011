package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/resmon/internal/model"
)

// Markers for values the host did not report.
const (
	Unavailable  = "unavailable"
	NotAvailable = "N/A"
)

const (
	gaugeFill  = "█"
	gaugeEmpty = "░"
)

// FormatPercent renders p with two decimals and a percent sign.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// FormatGB renders decimal gigabytes.
func FormatGB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/1e9)
}

// FormatMB renders decimal megabytes. Free memory is shown this way while
// the other memory figures use FormatGB.
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1e6)
}

// FormatProcessMemory is the value of the "Mem (MB)" column.
func FormatProcessMemory(bytes uint64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/1e6)
}

// FormatOptional returns the value or the unavailable marker, never "".
func FormatOptional(s *string) string {
	if s == nil {
		return Unavailable
	}
	return orUnavailable(*s)
}

func orUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unavailable
	}
	return s
}

// FormatOwner renders effective user and group ids.
func FormatOwner(o model.Owner) string {
	switch o.Kind {
	case model.OwnerBoth:
		return fmt.Sprintf("%d / %d", o.UID, o.GID)
	case model.OwnerUserOnly:
		return fmt.Sprintf("%d / %s", o.UID, NotAvailable)
	case model.OwnerGroupOnly:
		return fmt.Sprintf("%s / %d", NotAvailable, o.GID)
	default:
		return NotAvailable
	}
}

// FormatUptime renders d as "1d 02:03:04", dropping the day part when zero.
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	days := secs / 86400
	h := secs % 86400 / 3600
	m := secs % 3600 / 60
	s := secs % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func gaugeBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if !(pct >= 0) {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled)
}

func truncate(s string, n int) string {
	if runewidth.StringWidth(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "…")
}

func padRight(s string, n int) string {
	return runewidth.FillRight(truncate(s, n), n)
}

func padLeft(s string, n int) string {
	return runewidth.FillLeft(truncate(s, n), n)
}
