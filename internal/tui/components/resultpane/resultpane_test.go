package resultpane_test

import (
	"testing"

	"github.com/clipwise/clipscribe/internal/tui/components/resultpane"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestShowsPlaceholderUntilContentSet(t *testing.T) {
	m := resultpane.New("Transcription", "Nothing yet")

	assert.Contains(t, m.View(), "Transcription")
	assert.Contains(t, m.View(), "Nothing yet")
	assert.Empty(t, m.Content())

	m.SetContent("hello world")
	assert.Contains(t, m.View(), "hello world")
	assert.NotContains(t, m.View(), "Nothing yet")
	assert.Equal(t, "hello world", m.Content())
}

func TestClearRestoresPlaceholder(t *testing.T) {
	m := resultpane.New("Summary", "Nothing yet")
	m.SetContent("a summary")
	m.Clear()

	assert.Contains(t, m.View(), "Nothing yet")
	assert.Empty(t, m.Content())
}

func TestSetPlaceholderSwapsEmptyText(t *testing.T) {
	m := resultpane.New("Summary", "Nothing yet")
	m.SetPlaceholder("Processing...")

	assert.Contains(t, m.View(), "Processing...")
}

func TestLongContentWrapsToWidth(t *testing.T) {
	m := resultpane.New("Transcription", "")
	m.SetSize(20, 4)
	m.SetContent("one two three four five six seven eight nine ten eleven twelve")

	view := m.View()
	for _, line := range splitLines(view) {
		assert.LessOrEqual(t, lipgloss.Width(line), 24)
	}
}

func TestSizeFloorsAreEnforced(t *testing.T) {
	m := resultpane.New("Summary", "x")
	m.SetSize(0, 0)

	// A degenerate terminal must not panic rendering.
	assert.NotEmpty(t, m.View())
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
