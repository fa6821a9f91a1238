package progresstrack_test

import (
	"strings"
	"testing"
	"time"

	"github.com/clipwise/clipscribe/internal/tui/components/progresstrack"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func fastPhase(label string, ceiling, step float64) progresstrack.PhaseSpec {
	return progresstrack.PhaseSpec{
		Label:    label,
		Ceiling:  ceiling,
		Step:     step,
		Interval: time.Millisecond,
	}
}

// drive invokes the pending command and feeds its message back until the
// track stops scheduling work, recording every percent along the way.
func drive(t *testing.T, m progresstrack.Model, cmd tea.Cmd, maxSteps int) (progresstrack.Model, []float64, int) {
	t.Helper()

	var percents []float64
	exhausted := 0
	for steps := 0; cmd != nil && steps < maxSteps; steps++ {
		msg := cmd()
		if _, ok := msg.(progresstrack.ExhaustedMsg); ok {
			exhausted++
		}
		m, cmd = m.Update(msg)
		percents = append(percents, m.Percent())
	}
	return m, percents, exhausted
}

func TestPhaseAdvancesMonotonicallyToCeiling(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Downloading video", 30, 10))

	m, percents, exhausted := drive(t, m, cmd, 50)

	require.Equal(t, 30.0, m.Percent())
	require.False(t, m.Running())
	require.Equal(t, 1, exhausted)

	prev := 0.0
	for _, p := range percents {
		require.GreaterOrEqual(t, p, prev)
		require.LessOrEqual(t, p, 30.0)
		prev = p
	}
}

func TestCeilingNeverReachesFull(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Processing", 100, 25))

	m, _, _ = drive(t, m, cmd, 50)

	require.Less(t, m.Percent(), 100.0)
	require.Equal(t, 99.0, m.Percent())
}

func TestStaleTickIsDropped(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Downloading video", 90, 5))

	// Advance once, then capture a live tick without delivering it.
	m, cmd = m.Update(cmd())
	require.Equal(t, 5.0, m.Percent())
	pending := cmd()

	m.StopPhase()
	m, next := m.Update(pending)

	require.Nil(t, next)
	require.Equal(t, 5.0, m.Percent())
}

func TestStopPhaseIsIdempotent(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Downloading video", 20, 20))

	m, _, _ = drive(t, m, cmd, 10)
	require.False(t, m.Running())

	// Stop after natural exhaustion, twice. Neither call may move the bar.
	m.StopPhase()
	m.StopPhase()
	require.Equal(t, 20.0, m.Percent())
}

func TestNewPhaseResumesFromCurrentPercent(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Downloading video", 30, 15))
	m, _, _ = drive(t, m, cmd, 10)
	require.Equal(t, 30.0, m.Percent())

	cmd = m.StartPhase(fastPhase("Transcribing", 60, 15))
	m, percents, _ := drive(t, m, cmd, 10)

	require.Equal(t, 60.0, m.Percent())
	for _, p := range percents {
		require.GreaterOrEqual(t, p, 30.0)
	}
}

func TestPhaseBelowCurrentPercentExhaustsWithoutRegress(t *testing.T) {
	m := progresstrack.New(20)
	m.SnapTo(75, "held")

	cmd := m.StartPhase(fastPhase("late phase", 50, 5))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, progresstrack.ExhaustedMsg{}, msg)

	m, next := m.Update(msg)
	require.Nil(t, next)
	require.Equal(t, 75.0, m.Percent())
}

func TestForeignTickIsIgnored(t *testing.T) {
	a := progresstrack.New(20)
	b := progresstrack.New(20)

	cmdA := a.StartPhase(fastPhase("a", 50, 10))
	_ = b.StartPhase(fastPhase("b", 50, 10))

	msgA := cmdA()
	b, next := b.Update(msgA)

	require.Nil(t, next)
	require.Equal(t, 0.0, b.Percent())
}

func TestSnapToClampsAndRelabels(t *testing.T) {
	m := progresstrack.New(20)

	m.SnapTo(150, "done")
	require.Equal(t, 100.0, m.Percent())
	require.Equal(t, "done", m.Label())

	m.SnapTo(-5, "failed")
	require.Equal(t, 0.0, m.Percent())
}

func TestResetClearsTrack(t *testing.T) {
	m := progresstrack.New(20)
	cmd := m.StartPhase(fastPhase("Downloading video", 90, 5))
	m, cmd = m.Update(cmd())
	require.Greater(t, m.Percent(), 0.0)
	pending := cmd()

	m.Reset()
	require.Equal(t, 0.0, m.Percent())
	require.Empty(t, m.Label())
	require.False(t, m.Running())

	// The tick captured before the reset must not resurrect the phase.
	m, _ = m.Update(pending)
	require.Equal(t, 0.0, m.Percent())
}

func TestViewShowsLabelAndPercent(t *testing.T) {
	m := progresstrack.New(20)
	m.SnapTo(42, "Downloading video")

	view := m.View()
	require.Contains(t, view, "Downloading video")
	require.Contains(t, view, "42%")
	require.True(t, strings.Contains(view, "\n"))
}
