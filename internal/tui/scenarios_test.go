package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/clipwise/clipscribe/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 50 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) check(t *testing.T, tm *teatest.TestModel, checkFunc func(buf []byte) bool) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), checkFunc,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	o.check(t, tm, func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	})
}

func startTUI(t *testing.T, proc Processor, url string) *teatest.TestModel {
	t.Helper()
	return teatest.NewTestModel(t,
		New(Config{InitialURL: url, Language: "en"}, proc),
		teatest.WithInitialTermSize(120, 40),
	)
}

func quitAndInspect(t *testing.T, tm *teatest.TestModel) *model {
	t.Helper()
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	fm := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	m, ok := fm.(*model)
	require.True(t, ok)
	return m
}

// waitCooldown gives the post-operation cooldown (shortened for tests) time
// to put the screen back to idle.
func waitCooldown() {
	time.Sleep(cooldownDelay + 100*time.Millisecond)
}

func TestScenarioEmptyURLNeverCallsServer(t *testing.T) {
	checker := defaultChecker()
	proc := &mockProcessor{}
	tm := startTUI(t, proc, "")

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.checkString(t, tm, urlRequiredMessage)

	m := quitAndInspect(t, tm)
	assert.Zero(t, proc.processCount())
	assert.Zero(t, proc.extractCount())
	assert.Equal(t, failValidation, m.failure)
}

func TestScenarioFullProcessSuccess(t *testing.T) {
	checker := defaultChecker()
	proc := &mockProcessor{
		processQueue: []processReply{{
			result: &api.ProcessResult{
				Transcription: "the quick brown fox",
				Summary:       "a fox jumps",
			},
		}},
	}
	tm := startTUI(t, proc, testURL)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	checker.checkString(t, tm, "Downloading video")
	checker.checkString(t, tm, "the quick brown fox")
	checker.checkString(t, tm, "a fox jumps")
	checker.checkString(t, tm, successBanner)
	// Real completion snaps the bars to a clean 100.
	checker.checkString(t, tm, "100%")

	waitCooldown()
	m := quitAndInspect(t, tm)

	require.Equal(t, 1, proc.processCount())
	assert.Equal(t, call{url: testURL, lang: "en"}, proc.processCalls[0])
	assert.Equal(t, stateIdle, m.state)
	assert.False(t, m.opLive)
	assert.Equal(t, 0.0, m.download.Percent())
	assert.Equal(t, "the quick brown fox", m.transcript.Content())
}

func TestScenarioTooLongThenExtractThenProcessExtracted(t *testing.T) {
	checker := defaultChecker()
	proc := &mockProcessor{
		processQueue: []processReply{
			{err: &api.TooLongError{Detail: "Video too long for processing"}},
			{result: &api.ProcessResult{
				Transcription: "chunk one chunk two",
				Summary:       "stitched summary",
				AudioPath:     "a.mp3",
			}},
		},
		extractQueue: []extractReply{{
			result: &api.ExtractResult{AudioPath: "a.mp3", SizeMB: 3.5},
		}},
	}
	tm := startTUI(t, proc, testURL)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.checkString(t, tm, "too long for automatic transcription")
	checker.checkString(t, tm, summaryTooLongText)

	waitCooldown()
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlE})
	checker.checkString(t, tm, "download-audio/a.mp3")
	checker.checkString(t, tm, "3.50 MB")
	checker.checkString(t, tm, extractSuccessBanner)
	checker.checkString(t, tm, "ctrl+p")

	waitCooldown()
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlP})
	checker.checkString(t, tm, "Transcribing extracted audio")
	checker.checkString(t, tm, "chunk one chunk two")
	checker.checkString(t, tm, "stitched summary")

	waitCooldown()
	m := quitAndInspect(t, tm)

	assert.Equal(t, 2, proc.processCount())
	assert.Equal(t, 1, proc.extractCount())
	assert.Equal(t, stateIdle, m.state)
}

func TestScenarioTransportFailureShowsCause(t *testing.T) {
	checker := defaultChecker()
	proc := &mockProcessor{
		processQueue: []processReply{{err: errors.New("connection refused by peer")}},
	}
	tm := startTUI(t, proc, testURL)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.checkString(t, tm, "connection refused by peer")
	checker.checkString(t, tm, "processing server")
	checker.checkString(t, tm, processingFailedText)

	m := quitAndInspect(t, tm)
	assert.Equal(t, failTransport, m.failure)
}
