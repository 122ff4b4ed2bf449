package result

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"devopsdemo/internal/stats"
	"devopsdemo/internal/tui/styles"
)

type Model struct {
	Stats *stats.Stats

	Width  int
	Height int
}

func NewModel(s *stats.Stats) Model {
	return Model{Stats: s}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m Model) View() string {
	s := strings.Builder{}

	avg := m.Stats.ServiceTime.Mean() / 1000.0
	max := float64(m.Stats.ServiceTime.Max()) / 1000.0

	s.WriteString(styles.Title.Render("📊 Bench Complete"))
	s.WriteString("\n\n")

	s.WriteString(styles.Active.Render("Overview"))
	s.WriteString("\n")
	overview := fmt.Sprintf(
		"Total Requests: %d\nSuccess:        %d\nFailed:         %d\nTotal Bytes:    %d",
		m.Stats.Requests, m.Stats.Success, m.Stats.Fail, m.Stats.Bytes,
	)
	s.WriteString(styles.Box.Render(overview))
	s.WriteString("\n\n")

	s.WriteString(styles.Active.Render("Latency (Service Time)"))
	s.WriteString("\n")
	latency := fmt.Sprintf(
		"Avg: %.2f ms\nP50: %.2f ms\nP90: %.2f ms\nP99: %.2f ms\nMax: %.2f ms",
		avg, m.Stats.GetP50Service(), m.Stats.GetP90Service(), m.Stats.GetP99Service(), max,
	)
	s.WriteString(styles.Box.Render(latency))

	if errs := m.Stats.GetErrorCounts(); len(errs) > 0 {
		sigs := make([]string, 0, len(errs))
		for sig := range errs {
			sigs = append(sigs, sig)
		}
		sort.Strings(sigs)

		lines := make([]string, 0, len(sigs))
		for _, sig := range sigs {
			lines = append(lines, fmt.Sprintf("%d x %s", errs[sig], sig))
		}
		s.WriteString("\n\n")
		s.WriteString(styles.Error.Render("Failures"))
		s.WriteString("\n")
		s.WriteString(styles.Box.Render(strings.Join(lines, "\n")))
	}

	s.WriteString("\n\n")
	s.WriteString(styles.Subtle.Render("Press q to quit"))

	return s.String()
}
