package ux

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by all text views
type Styles struct {
	// Title styles section headings
	Title lipgloss.Style
	// Accent styles task and project names
	Accent lipgloss.Style
	// Muted styles secondary detail (paths, deps, timestamps)
	Muted lipgloss.Style
	// Success, Failure and Warning style status glyphs and verdicts
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	// Count styles numeric totals
	Count lipgloss.Style
}

// DefaultStyles returns the colored style set
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Count:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle(),
		Accent:  lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Failure: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Count:   lipgloss.NewStyle(),
	}
}

// StylesFor picks the style set for the current output mode
func StylesFor(noColor bool) Styles {
	if noColor {
		return PlainStyles()
	}
	return DefaultStyles()
}
