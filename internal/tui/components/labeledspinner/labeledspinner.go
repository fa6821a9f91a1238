// Package labeledspinner renders a spinner with a title and a detail line.
package labeledspinner

import (
	"strings"

	"github.com/clipwise/clipscribe/internal/tui/style"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner next to a short activity title, with an optional
// muted detail line underneath. Used while a request is in flight and no
// percent-style progress applies (audio extraction).
type Model struct {
	Spinner spinner.Model
	Title   string
	Detail  string
}

// New creates a labeled spinner with the given animation and text.
func New(s spinner.Spinner, title, detail string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Title:   title,
		Detail:  detail,
	}
}

// Init returns the initial command for the spinner.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update handles spinner tick messages.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

// View renders the spinner line, plus the detail line when set.
func (ls Model) View() string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(ls.Title))

	if ls.Detail != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(ls.Detail))
	}

	return sb.String()
}
