// Package tui is the clipscribe terminal client. It owns the operation
// lifecycle for talking to the processing server: one submission at a time,
// simulated progress while a request is in flight (the server sends nothing
// until it finishes), classified failure presentation, and a short cooldown
// before the screen accepts the next operation.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clipwise/clipscribe/internal/api"
	"github.com/clipwise/clipscribe/internal/content"
	"github.com/clipwise/clipscribe/internal/tui/components/labeledspinner"
	"github.com/clipwise/clipscribe/internal/tui/components/progresstrack"
	"github.com/clipwise/clipscribe/internal/tui/components/resultpane"
	"github.com/clipwise/clipscribe/pkg/collections"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Config carries everything the TUI needs from the command line.
type Config struct {
	InitialURL string
	Language   string
	Ctx        context.Context
	Cancel     context.CancelFunc
}

// Simulated phases. Ceilings sit below 100 so a bar can only complete on a
// real response; the download phase hands off to the processing phase when
// it exhausts.
var (
	downloadPhase = progresstrack.PhaseSpec{
		Label:    "Downloading video",
		Ceiling:  90,
		Step:     5,
		Interval: 60 * time.Millisecond,
	}
	processingPhase = progresstrack.PhaseSpec{
		Label:    "Transcribing and summarizing",
		Ceiling:  95,
		Step:     2,
		Interval: 100 * time.Millisecond,
	}
	extractedAudioPhase = progresstrack.PhaseSpec{
		Label:    "Transcribing extracted audio",
		Ceiling:  95,
		Step:     2,
		Interval: 120 * time.Millisecond,
	}
)

// Fixed user-facing strings.
const (
	urlRequiredMessage    = "Enter a video URL first."
	processingPlaceholder = "Processing..."
	processingFailedText  = "Processing failed."
	summaryTooLongText    = "Summary not available for long videos."
	successBanner         = "Processing complete."
	extractSuccessBanner  = "Audio extracted."
	extractFailedBanner   = "Audio extraction failed."
	transcriptPlaceholder = "No transcription yet."
	summaryPlaceholder    = "No summary yet."
)

type bannerTone int

const (
	toneNone bannerTone = iota
	toneSuccess
	toneWarn
	toneError
)

type model struct {
	config Config
	keys   KeyMap
	proc   Processor

	state   opState
	mode    opMode
	failure failKind
	seq     int
	opURL   string
	opLive  bool

	urlInput textinput.Model
	langIdx  int

	download progresstrack.Model
	process  progresstrack.Model
	busy     labeledspinner.Model
	elapsed  stopwatch.Model

	transcript resultpane.Model
	summary    resultpane.Model

	banner string
	tone   bannerTone

	// Download affordance for the last stored audio file, and the URL
	// markers that gate the transcribe-extracted-audio follow-up.
	audioURL     string
	audioNote    string
	tooLongURL   string
	extractedURL string

	width  int
	height int
}

// New creates the TUI model.
func New(config Config, proc Processor) tea.Model {
	return newModel(config, proc)
}

func newModel(config Config, proc Processor) *model {
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "https://youtube.com/shorts/..."
	ti.CharLimit = 512
	ti.SetValue(config.InitialURL)
	ti.Focus()

	langIdx := 0
	for i, lang := range content.SupportedLanguages() {
		if lang == config.Language {
			langIdx = i
			break
		}
	}

	return &model{
		config:   config,
		keys:     DefaultKeyMap(),
		proc:     proc,
		state:    stateIdle,
		urlInput: ti,
		langIdx:  langIdx,
		download: progresstrack.New(40),
		process:  progresstrack.New(40),
		busy: labeledspinner.New(
			spinner.Dot,
			"Extracting audio...",
			"Fetching just the audio track, no length cap",
		),
		elapsed:    stopwatch.New(),
		transcript: resultpane.New("Transcription", transcriptPlaceholder),
		summary:    resultpane.New("Summary", summaryPlaceholder),
		width:      80,
		height:     24,
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case processDoneMsg:
		return m, m.handleProcessDone(msg)

	case extractDoneMsg:
		return m, m.handleExtractDone(msg)

	case cooldownOverMsg:
		return m, m.finishCooldown(msg.seq)

	case progresstrack.ExhaustedMsg:
		// The download phase hands off to the processing phase. Exhaustion
		// of the processing phase itself just means hold and wait.
		if msg.ID == m.download.ID() && m.state == stateAwaiting && m.mode == modeFullProcess {
			return m, m.process.StartPhase(processingPhase)
		}
		return m, nil

	case linkOpenedMsg:
		if msg.err != nil {
			slog.Warn("Failed to open audio link", "error", msg.err)
		}
		return m, nil
	}

	return m, m.updateComponents(teaMsg)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		if m.config.Cancel != nil {
			m.config.Cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit(modeFullProcess)

	case key.Matches(msg, m.keys.Extract):
		return m, m.submit(modeExtractOnly)

	case key.Matches(msg, m.keys.ProcessAudio):
		if m.canProcessExtracted() {
			return m, m.submit(modeProcessExtracted)
		}
		return m, nil

	case key.Matches(msg, m.keys.Language):
		m.langIdx = (m.langIdx + 1) % len(content.SupportedLanguages())
		return m, nil

	case key.Matches(msg, m.keys.OpenAudio):
		if m.audioURL != "" {
			return m, openLinkCmd(m.audioURL)
		}
		return m, nil
	}

	// Plain keys type into the URL input while it accepts input; once the
	// input is blurred they scroll the result panes instead.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.urlInput.Focused() {
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	}
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)
	m.summary, cmd = m.summary.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit starts a new operation. Exactly one runs at a time: anything
// submitted before the previous operation finished its cooldown is ignored.
func (m *model) submit(mode opMode) tea.Cmd {
	if m.state != stateIdle {
		slog.Debug("Submission ignored, operation in flight",
			"state", m.state.String(), "mode", mode.String())
		return nil
	}

	m.transition(stateValidating)

	videoURL := strings.TrimSpace(m.urlInput.Value())
	if videoURL == "" {
		m.transition(stateFailed)
		m.failure = failValidation
		m.banner = urlRequiredMessage
		m.tone = toneError
		return m.terminalize()
	}

	m.seq++
	m.mode = mode
	m.opURL = videoURL
	m.opLive = true
	m.failure = failNone
	m.banner = ""
	m.tone = toneNone
	m.audioURL = ""
	m.audioNote = ""
	m.urlInput.Blur()
	m.transition(stateAwaiting)

	lang := m.language()
	cmds := []tea.Cmd{m.elapsed.Reset(), m.elapsed.Start()}

	switch mode {
	case modeFullProcess:
		m.setPanesProcessing()
		cmds = append(cmds,
			m.download.StartPhase(downloadPhase),
			processCmd(m.config.Ctx, m.proc, m.seq, videoURL, lang),
		)
	case modeProcessExtracted:
		m.setPanesProcessing()
		cmds = append(cmds,
			m.process.StartPhase(extractedAudioPhase),
			processCmd(m.config.Ctx, m.proc, m.seq, videoURL, lang),
		)
	case modeExtractOnly:
		cmds = append(cmds,
			m.busy.Init(),
			extractCmd(m.config.Ctx, m.proc, m.seq, videoURL, lang),
		)
	}

	return tea.Batch(cmds...)
}

func (m *model) handleProcessDone(msg processDoneMsg) tea.Cmd {
	if msg.seq != m.seq || m.state != stateAwaiting {
		slog.Debug("Dropping stale process response", "seq", msg.seq)
		return nil
	}

	if msg.err == nil {
		m.stopTracks()
		m.snapTracks(100)
		m.transcript.SetContent(msg.result.Transcription)
		m.summary.SetContent(msg.result.Summary)
		if msg.result.AudioPath != "" {
			m.audioURL = m.proc.DownloadURL(msg.result.AudioPath)
		}
		m.banner = successBanner
		m.tone = toneSuccess
		m.transition(stateSucceeded)
		return m.terminalize()
	}

	var tooLong *api.TooLongError
	var srvErr *api.ServerError
	switch {
	case errors.As(msg.err, &tooLong):
		m.tooLongURL = m.opURL
		m.transcript.SetContent(tooLong.Detail)
		m.summary.SetContent(summaryTooLongText)
		return m.fail(failTooLong, fmt.Sprintf(
			"This video is too long for automatic transcription. Press %s to extract the audio instead.",
			m.keys.Extract.Help().Key,
		))

	case errors.As(msg.err, &srvErr):
		m.transcript.SetContent(processingFailedText)
		m.summary.SetContent(processingFailedText)
		return m.fail(failServer, srvErr.Detail)

	default:
		m.transcript.SetContent(processingFailedText)
		m.summary.SetContent(processingFailedText)
		return m.fail(failTransport, fmt.Sprintf(
			"Request failed: %v. Check that the processing server is reachable.", msg.err,
		))
	}
}

func (m *model) handleExtractDone(msg extractDoneMsg) tea.Cmd {
	if msg.seq != m.seq || m.state != stateAwaiting {
		slog.Debug("Dropping stale extract response", "seq", msg.seq)
		return nil
	}

	if msg.err == nil {
		m.audioURL = m.proc.DownloadURL(msg.result.AudioPath)
		if msg.result.SizeMB > 0 {
			m.audioNote = fmt.Sprintf("%.2f MB", msg.result.SizeMB)
		}
		m.extractedURL = m.opURL
		m.banner = extractSuccessBanner
		m.tone = toneSuccess
		m.transition(stateSucceeded)
		return m.terminalize()
	}

	detail := msg.err.Error()
	kind := failTransport
	var srvErr *api.ServerError
	if errors.As(msg.err, &srvErr) {
		detail = srvErr.Detail
		kind = failServer
	}
	return m.fail(kind, extractFailedBanner+" "+detail)
}

// fail finalizes the operation with an error presentation. Tracks stop and
// snap to zero; the cooldown starts like on any other terminal state.
func (m *model) fail(kind failKind, message string) tea.Cmd {
	m.stopTracks()
	m.snapTracks(0)
	m.failure = kind
	m.banner = message
	m.tone = toneError
	if kind == failTooLong {
		m.tone = toneWarn
	}
	m.transition(stateFailed)
	return m.terminalize()
}

// terminalize moves a just-finished operation into its cooldown.
func (m *model) terminalize() tea.Cmd {
	m.transition(stateCooling)
	return tea.Batch(m.elapsed.Stop(), cooldownCmd(m.seq))
}

func (m *model) finishCooldown(seq int) tea.Cmd {
	if seq != m.seq || m.state != stateCooling {
		return nil
	}
	m.download.Reset()
	m.process.Reset()
	m.opLive = false
	m.transition(stateIdle)
	return m.urlInput.Focus()
}

func (m *model) transition(to opState) {
	if !isValidTransition(m.state, to) {
		slog.Warn("Refusing invalid state transition",
			"from", m.state.String(), "to", to.String())
		return
	}
	m.state = to
}

func (m *model) stopTracks() {
	m.download.StopPhase()
	m.process.StopPhase()
}

// snapTracks moves every track the current mode displays to a terminal
// value, keeping their labels.
func (m *model) snapTracks(percent float64) {
	switch m.mode {
	case modeFullProcess:
		m.download.SnapTo(percent, m.download.Label())
		m.process.SnapTo(percent, m.process.Label())
	case modeProcessExtracted:
		m.process.SnapTo(percent, m.process.Label())
	case modeExtractOnly:
	}
}

func (m *model) setPanesProcessing() {
	m.transcript.Clear()
	m.transcript.SetPlaceholder(processingPlaceholder)
	m.summary.Clear()
	m.summary.SetPlaceholder(processingPlaceholder)
}

func (m *model) canProcessExtracted() bool {
	url := strings.TrimSpace(m.urlInput.Value())
	return url != "" && url == m.extractedURL && url == m.tooLongURL
}

func (m *model) language() string {
	return content.SupportedLanguages()[m.langIdx]
}

// updateComponents fans non-key messages out to the owned components.
func (m *model) updateComponents(teaMsg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.download, cmd = m.download.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.process, cmd = m.process.Update(teaMsg)
	cmds = append(cmds, cmd)

	// The busy spinner only animates during an extraction; dropping its
	// ticks otherwise ends the self-perpetuating tick chain.
	if m.state == stateAwaiting && m.mode == modeExtractOnly {
		m.busy, cmd = m.busy.Update(teaMsg)
		cmds = append(cmds, cmd)
	}

	m.elapsed, cmd = m.elapsed.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.urlInput, cmd = m.urlInput.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.transcript, cmd = m.transcript.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.summary, cmd = m.summary.Update(teaMsg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height

	m.urlInput.Width = collections.Clamp(width-8, 20, 200)

	barWidth := collections.Clamp(width-14, 20, 60)
	m.download.SetWidth(barWidth)
	m.process.SetWidth(barWidth)

	paneWidth := collections.Clamp((width-10)/2, 20, 120)
	paneHeight := collections.Clamp(height-16, 4, 40)
	m.transcript.SetSize(paneWidth, paneHeight)
	m.summary.SetSize(paneWidth, paneHeight)
}
