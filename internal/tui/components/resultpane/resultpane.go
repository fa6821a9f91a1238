// Package resultpane renders a titled, bordered, scrollable text panel for
// the transcription and summary results.
package resultpane

import (
	"github.com/clipwise/clipscribe/internal/tui/style"
	"github.com/clipwise/clipscribe/pkg/collections"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 10
	minHeight = 3
)

// Model is one result panel. When no content has been set it shows its
// placeholder, muted.
type Model struct {
	title       string
	placeholder string
	content     string
	vp          viewport.Model
}

func New(title, placeholder string) Model {
	m := Model{
		title:       title,
		placeholder: placeholder,
		vp:          viewport.New(40, 6),
	}
	m.refresh()

	return m
}

// SetContent replaces the panel text and scrolls back to the top.
func (m *Model) SetContent(content string) {
	m.content = content
	m.refresh()
	m.vp.GotoTop()
}

// SetPlaceholder swaps the text shown while the panel is empty.
func (m *Model) SetPlaceholder(placeholder string) {
	m.placeholder = placeholder
	m.refresh()
}

// Clear drops the content so the placeholder shows again.
func (m *Model) Clear() {
	m.content = ""
	m.refresh()
}

// Content returns the raw panel text, empty when showing the placeholder.
func (m Model) Content() string {
	return m.content
}

// SetSize resizes the inner viewport and re-wraps the text to the new width.
func (m *Model) SetSize(width, height int) {
	m.vp.Width = collections.Clamp(width, minWidth, 500)
	m.vp.Height = collections.Clamp(height, minHeight, 200)
	m.refresh()
}

// Update delegates scrolling to the viewport.
func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(teaMsg)

	return m, cmd
}

// View renders the title line over the bordered panel.
func (m Model) View() string {
	return style.Title.Render(m.title) + "\n" + style.Pane.Render(m.vp.View())
}

func (m *Model) refresh() {
	text := m.content
	if text == "" {
		text = style.Muted.Render(m.placeholder)
	}
	m.vp.SetContent(wrapText(text, m.vp.Width))
}

// wrapText wraps the given text to fit within the specified width using
// lipgloss, so long lines wrap instead of being truncated by the viewport.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	wrapper := lipgloss.NewStyle().Width(width)

	return wrapper.Render(text)
}
