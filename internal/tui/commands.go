package tui

import (
	"context"
	"time"

	"github.com/clipwise/clipscribe/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

// cooldownDelay is how long a finished operation's progress UI lingers
// before the screen returns to idle. Fixed on purpose: it is a display
// rhythm, not a tunable.
var cooldownDelay = 2 * time.Second

// processDoneMsg carries the outcome of a /process call. seq ties it to the
// operation that issued it; responses from superseded operations are dropped.
type processDoneMsg struct {
	seq    int
	result *api.ProcessResult
	err    error
}

// extractDoneMsg carries the outcome of an /extract-audio call.
type extractDoneMsg struct {
	seq    int
	result *api.ExtractResult
	err    error
}

// cooldownOverMsg ends the post-operation cooldown.
type cooldownOverMsg struct {
	seq int
}

// linkOpenedMsg reports the attempt to open the audio link in a browser.
type linkOpenedMsg struct {
	err error
}

func processCmd(ctx context.Context, proc Processor, seq int, videoURL, targetLanguage string) tea.Cmd {
	return func() tea.Msg {
		result, err := proc.Process(ctx, videoURL, targetLanguage)
		return processDoneMsg{seq: seq, result: result, err: err}
	}
}

func extractCmd(ctx context.Context, proc Processor, seq int, videoURL, targetLanguage string) tea.Cmd {
	return func() tea.Msg {
		result, err := proc.ExtractAudio(ctx, videoURL, targetLanguage)
		return extractDoneMsg{seq: seq, result: result, err: err}
	}
}

func cooldownCmd(seq int) tea.Cmd {
	return tea.Tick(cooldownDelay, func(time.Time) tea.Msg {
		return cooldownOverMsg{seq: seq}
	})
}

func openLinkCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return linkOpenedMsg{err: browser.OpenURL(url)}
	}
}
