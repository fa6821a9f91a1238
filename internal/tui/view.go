package tui

import (
	"strings"

	"github.com/clipwise/clipscribe/internal/tui/style"
	"github.com/clipwise/clipscribe/pkg/collections"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("ClipScribe"))
	sb.WriteString("  ")
	sb.WriteString(style.Subtitle.Render("short videos in, transcripts and summaries out"))
	sb.WriteString("\n\n")

	sb.WriteString(style.Label.Render("Video URL"))
	sb.WriteString("   ")
	sb.WriteString(style.Subtitle.Render("language: " + m.language()))
	sb.WriteString("\n")
	sb.WriteString(m.urlInput.View())
	sb.WriteString("\n\n")

	if progress := m.progressView(); progress != "" {
		sb.WriteString(progress)
		sb.WriteString("\n\n")
	}

	if m.banner != "" {
		sb.WriteString(m.bannerView())
		sb.WriteString("\n\n")
	}

	if m.audioURL != "" {
		sb.WriteString(m.audioView())
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.panesView())
	sb.WriteString("\n\n")
	sb.WriteString(m.helpView())

	return sb.String()
}

// progressView renders the area between input and results while an
// operation is live: simulated tracks for processing modes, the busy
// spinner for extraction. Hidden again once the cooldown ends.
func (m *model) progressView() string {
	if !m.opLive {
		return ""
	}

	var sb strings.Builder
	switch m.mode {
	case modeFullProcess:
		sb.WriteString(m.download.View())
		sb.WriteString("\n")
		sb.WriteString(m.process.View())
	case modeProcessExtracted:
		sb.WriteString(m.process.View())
	case modeExtractOnly:
		if m.state != stateAwaiting {
			// The outcome banner tells the rest of the story.
			return ""
		}
		sb.WriteString(m.busy.View())
	}

	sb.WriteString("\n")
	sb.WriteString(style.Muted.Render("elapsed " + m.elapsed.View()))

	return sb.String()
}

func (m *model) bannerView() string {
	switch m.tone {
	case toneSuccess:
		return style.Success.Render(m.banner)
	case toneWarn:
		return style.Warning.Render(m.banner)
	case toneError:
		return style.Error.Render(m.banner)
	default:
		return style.Subtitle.Render(m.banner)
	}
}

func (m *model) audioView() string {
	var sb strings.Builder
	sb.WriteString(style.Label.Render("Audio: "))
	sb.WriteString(style.Link.Render(m.audioURL))
	if m.audioNote != "" {
		sb.WriteString(style.Muted.Render(" (" + m.audioNote + ")"))
	}
	sb.WriteString("  ")
	sb.WriteString(renderKeyHelp(m.keys.OpenAudio))

	return sb.String()
}

func (m *model) panesView() string {
	if m.width < 70 {
		return m.transcript.View() + "\n" + m.summary.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.transcript.View(), "  ", m.summary.View())
}

func (m *model) helpView() string {
	bindings := []key.Binding{m.keys.Submit, m.keys.Extract}
	if m.canProcessExtracted() {
		bindings = append(bindings, m.keys.ProcessAudio)
	}
	bindings = append(bindings, m.keys.Language, m.keys.Quit)

	return strings.Join(collections.Apply(bindings, renderKeyHelp), "  ")
}

func renderKeyHelp(keyBinding key.Binding) string {
	return style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)
}
