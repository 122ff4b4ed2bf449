package live

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"devopsdemo/internal/runner"
	"devopsdemo/internal/tui/components"
	"devopsdemo/internal/tui/styles"
)

type Model struct {
	Stats    runner.Snapshot
	Progress progress.Model

	RpsLine     components.Sparkline
	LatencyLine components.Sparkline

	StartTime  time.Time
	Duration   time.Duration
	LastUpdate time.Time
	LastReqs   uint64

	Width  int
	Height int
}

func NewModel(totalDur time.Duration) Model {
	now := time.Now()
	return Model{
		Progress:    progress.New(progress.WithDefaultGradient()),
		RpsLine:     components.NewSparkline(40, 1, "GET / per second", styles.Active),
		LatencyLine: components.NewSparkline(40, 1, "P90 service (ms)", styles.Warn),
		StartTime:   now,
		Duration:    totalDur,
		LastUpdate:  now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runner.Snapshot:
		now := time.Now()
		dt := now.Sub(m.LastUpdate).Seconds()
		if dt < 0.01 {
			dt = 0.01
		}

		var deltaReqs uint64
		if msg.Requests > m.LastReqs {
			deltaReqs = msg.Requests - m.LastReqs
		}
		m.RpsLine.Add(uint64(float64(deltaReqs) / dt))
		m.LatencyLine.Add(uint64(msg.P90ServiceMs))

		m.Stats = msg
		m.LastReqs = msg.Requests
		m.LastUpdate = now

		return m, m.Progress.SetPercent(m.Percent(now))

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Progress.Width = msg.Width - 4

		half := (msg.Width / 2) - 4
		if half < 10 {
			half = 10
		}
		m.RpsLine.Width = half
		m.LatencyLine.Width = half
		return m, nil

	case progress.FrameMsg:
		prog, cmd := m.Progress.Update(msg)
		m.Progress = prog.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// Percent is the share of the planned duration elapsed at now, capped at 1.
func (m Model) Percent(now time.Time) float64 {
	if m.Duration <= 0 {
		return 1.0
	}
	pct := float64(now.Sub(m.StartTime)) / float64(m.Duration)
	if pct > 1.0 {
		pct = 1.0
	}
	return pct
}

// rateStyle picks a colour for an error rate or queue lag reading.
func rateStyle(v, warn, crit float64) lipgloss.Style {
	switch {
	case v > crit:
		return styles.Error
	case v > warn:
		return styles.Warn
	}
	return styles.Active
}

func (m Model) View() string {
	s := strings.Builder{}

	st := m.Stats
	errRate := 0.0
	if st.Requests > 0 {
		errRate = (float64(st.Fail) / float64(st.Requests)) * 100
	}

	traffic := fmt.Sprintf("REQ: %d\nINF: %d", st.Requests, st.Inflight)
	if m.Percent(time.Now()) >= 1.0 && st.Inflight > 0 {
		traffic += "\n" + styles.Warn.Render("draining")
	}

	outcome := rateStyle(errRate, 1.0, 5.0).Render(
		fmt.Sprintf("OK: %d\nFAIL: %d\nERR: %.2f%%", st.Success, st.Fail, errRate),
	)

	lag := fmt.Sprintf(
		"LAG: %s\nKB: %d",
		rateStyle(st.AvgQueueWaitMs, 2.0, 10.0).Render(fmt.Sprintf("%.2f ms", st.AvgQueueWaitMs)),
		st.Bytes/1024,
	)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(traffic),
		styles.Box.Render(outcome),
		styles.Box.Render(lag),
	))
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(m.RpsLine.View()),
		styles.Box.Render(m.LatencyLine.View()),
	))
	s.WriteString("\n\n")

	latencies := fmt.Sprintf(
		"P50: %.2f ms  |  P90: %.2f ms  |  P99: %.2f ms  |  Max: %d ms",
		st.P50ServiceMs, st.P90ServiceMs, st.P99ServiceMs, st.MaxServiceMs,
	)
	box := styles.Box
	if m.Width > 8 {
		box = box.Width(m.Width - 4)
	}
	s.WriteString(box.Render(latencies))
	s.WriteString("\n\n")

	s.WriteString(m.Progress.View())

	return s.String()
}
