// Package progresstrack simulates forward progress for one visual track.
//
// The server answers a processing request with a single response and sends
// nothing while it works, so any motion on screen has to be manufactured
// client-side. A track ticks its percent toward a ceiling strictly below
// 100 and holds there; only a real outcome snaps it to a terminal value
// (100 on success, 0 on failure). Each StartPhase/StopPhase bumps a phase
// sequence number carried by every scheduled tick, so ticks from a finished
// phase are dropped instead of advancing a bar they no longer own. That is
// the same stale-message guard the bubbles spinner uses for its ticks.
package progresstrack

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/clipwise/clipscribe/internal/tui/style"
	"github.com/clipwise/clipscribe/pkg/collections"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// maxCeiling caps every simulated phase. 100 is reserved for SnapTo, so a
// bar can only ever complete on a real result, never on simulated ticks.
const maxCeiling = 99

const defaultInterval = 100 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// PhaseSpec describes one simulated phase: tick by Step every Interval
// until Ceiling, then hold.
type PhaseSpec struct {
	Label    string
	Ceiling  float64
	Step     float64
	Interval time.Duration
}

// TickMsg advances the track identified by ID, but only while Seq still
// matches the track's current phase.
type TickMsg struct {
	ID  int
	Seq int
}

// ExhaustedMsg reports that a track reached its ceiling and stopped
// ticking. Emitted once per phase; the controller uses it to chain the
// next phase.
type ExhaustedMsg struct {
	ID int
}

// Model is a single progress track. The zero value is not usable; call New.
type Model struct {
	id      int
	seq     int
	running bool

	percent float64
	ceiling float64
	step    float64
	interv  time.Duration
	label   string

	bar progress.Model
}

func New(width int) Model {
	return Model{
		id: nextID(),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(width),
			progress.WithoutPercentage(),
		),
	}
}

// ID identifies this track in TickMsg and ExhaustedMsg routing.
func (m Model) ID() int { return m.id }

// Percent is the currently displayed value, 0 to 100.
func (m Model) Percent() float64 { return m.percent }

// Label is the phase description shown above the bar.
func (m Model) Label() string { return m.label }

// Running reports whether a phase is actively ticking.
func (m Model) Running() bool { return m.running }

// SetWidth resizes the rendered bar.
func (m *Model) SetWidth(w int) {
	m.bar.Width = w
}

// StartPhase begins a new simulated phase and returns the command that
// drives it. The percent continues from wherever the track already is; a
// phase never moves a bar backwards. If the track already sits at or above
// the requested ceiling there is nothing to animate and the exhaustion is
// reported immediately.
func (m *Model) StartPhase(spec PhaseSpec) tea.Cmd {
	m.seq++
	m.label = spec.Label
	m.ceiling = collections.Clamp(spec.Ceiling, 0, maxCeiling)
	m.step = spec.Step
	if m.step <= 0 {
		m.step = 1
	}
	m.interv = spec.Interval
	if m.interv <= 0 {
		m.interv = defaultInterval
	}

	if m.percent >= m.ceiling {
		m.running = false
		id := m.id
		return func() tea.Msg { return ExhaustedMsg{ID: id} }
	}

	m.running = true
	return m.tickCmd()
}

// StopPhase ends the current phase. Ticks already in flight become stale
// and are ignored. Stopping a stopped or exhausted track is a no-op.
func (m *Model) StopPhase() {
	if !m.running {
		return
	}
	m.running = false
	m.seq++
}

// SnapTo sets the displayed value directly, clamped to [0, 100]. It does
// not touch the tick schedule; callers stop the phase first when they mean
// "this phase is over".
func (m *Model) SnapTo(percent float64, label string) {
	m.percent = collections.Clamp(percent, 0, 100)
	m.label = label
}

// Reset stops any phase and returns the track to an empty bar.
func (m *Model) Reset() {
	m.StopPhase()
	m.percent = 0
	m.label = ""
}

// Update consumes this track's own live ticks and ignores everything else.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.Seq != m.seq || !m.running {
		return m, nil
	}

	m.percent = collections.Clamp(m.percent+m.step, 0, m.ceiling)
	if m.percent >= m.ceiling {
		m.running = false
		id := m.id
		return m, func() tea.Msg { return ExhaustedMsg{ID: id} }
	}
	return m, m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	id, seq := m.id, m.seq
	return tea.Tick(m.interv, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Seq: seq}
	})
}

// View renders the label line and the bar with a numeric percent.
func (m Model) View() string {
	bar := fmt.Sprintf("%s %3.0f%%", m.bar.ViewAs(m.percent/100), m.percent)
	if m.label == "" {
		return bar
	}
	return style.Label.Render(m.label) + "\n" + bar
}
