// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
//
// Variable names intentionally omit "Style" suffix since they're accessed
// via the style package (e.g., style.Title reads better than style.TitleStyle).
var (
	// Title is used for the app header and pane titles.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Success is used for completed-operation banners.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for failure banners.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for the too-long fallback banner, which offers a next
	// step rather than reporting a dead end.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Pane is used for the transcription and summary viewport borders.
	Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Label is used for inline labels (e.g., "Language:", "Audio:").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for de-emphasized text (placeholders, elapsed time).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Link is used for the audio download URL.
	Link = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Underline(true)
)
