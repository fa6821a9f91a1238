package labeledspinner_test

import (
	"testing"

	"github.com/clipwise/clipscribe/internal/tui/components/labeledspinner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabeledSpinner(t *testing.T) {
	m := labeledspinner.New(spinner.Dot, "Extracting audio", "ffmpeg is pulling the track")
	t.Run("initial state", func(t *testing.T) {
		assert.Equal(t, "Extracting audio", m.Title)
		assert.Equal(t, "ffmpeg is pulling the track", m.Detail)
		assert.Equal(t, spinner.Dot, m.Spinner.Spinner)
	})

	v0 := m.View()
	t.Run("view output", func(t *testing.T) {
		assert.Contains(t, v0, "Extracting audio")
		assert.Contains(t, v0, "ffmpeg is pulling the track")
		assert.Contains(t, v0, spinner.Dot.Frames[0])
	})

	t.Run("check updates", func(t *testing.T) {
		assert.Contains(t, v0, spinner.Dot.Frames[0])
		m, _ = m.Update(spinner.TickMsg{})
		v1 := m.View()
		assert.Contains(t, v1, spinner.Dot.Frames[1])
		m, _ = m.Update(spinner.TickMsg{})
		v2 := m.View()
		assert.Contains(t, v2, spinner.Dot.Frames[2])
	})

	t.Run("detail is optional", func(t *testing.T) {
		bare := labeledspinner.New(spinner.Dot, "Working", "")
		assert.NotContains(t, bare.View(), "\n")
	})
}
