package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/resmon/internal/severity"
)

// Severity colors
var (
	ColorNormal   = lipgloss.Color("10") // green
	ColorElevated = lipgloss.Color("11") // yellow
	ColorCritical = lipgloss.Color("9")  // red
)

// Theme maps cell classes to lipgloss styles.
type Theme struct {
	styles map[Class]lipgloss.Style
}

// DefaultTheme is the dashboard palette bound to the default renderer.
func DefaultTheme() Theme {
	return NewTheme(lipgloss.DefaultRenderer())
}

// NewTheme builds the palette for a specific output.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{styles: map[Class]lipgloss.Style{
		ClassTitle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		ClassBorder:   r.NewStyle().Foreground(lipgloss.Color("60")),
		ClassLabel:    r.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		ClassValue:    r.NewStyle().Foreground(lipgloss.Color("252")),
		ClassHeader:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		ClassMuted:    r.NewStyle().Foreground(lipgloss.Color("244")),
		ClassNormal:   r.NewStyle().Foreground(ColorNormal),
		ClassElevated: r.NewStyle().Foreground(ColorElevated),
		ClassCritical: r.NewStyle().Foreground(ColorCritical).Bold(true),
	}}
}

// Style returns the style for class; unknown classes render unstyled.
func (t Theme) Style(class Class) lipgloss.Style {
	if s, ok := t.styles[class]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// SeverityClass is the cell class for a severity tier.
func SeverityClass(t severity.Tier) Class {
	switch t {
	case severity.Critical:
		return ClassCritical
	case severity.Elevated:
		return ClassElevated
	default:
		return ClassNormal
	}
}
