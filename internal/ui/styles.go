package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple #A78BFA): paths, reference text
// - Muted (gray): positions, counts, hints
// Status is shown with unicode symbols, never color alone.

var (
	// Accent style for file paths and reference text
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
)

// Plain drops every style. Used when output is not a terminal.
func Plain() {
	Accent = lipgloss.NewStyle()
	Muted = lipgloss.NewStyle()
	Bold = lipgloss.NewStyle()
	AccentBold = lipgloss.NewStyle()
}
