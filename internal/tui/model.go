package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"devopsdemo/internal/runner"
	"devopsdemo/internal/tui/live"
	"devopsdemo/internal/tui/result"
	"devopsdemo/internal/tui/styles"
)

type doneMsg struct{}

type Model struct {
	Runner  *runner.Runner
	Updates runner.UpdateChan

	Live   live.Model
	Result result.Model

	Done     bool
	Quitting bool

	cancel context.CancelFunc
	done   <-chan struct{}
}

func NewModel(r *runner.Runner, cancel context.CancelFunc, done <-chan struct{}) Model {
	return Model{
		Runner:  r,
		Updates: r.Updates,
		Live:    live.NewModel(r.Cfg.TotalDuration()),
		Result:  result.NewModel(r.Stats),
		cancel:  cancel,
		done:    done,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Live.Init(), waitForUpdate(m.Updates, m.done))
}

// waitForUpdate yields the next snapshot, or doneMsg once the run is over.
func waitForUpdate(sub runner.UpdateChan, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-sub:
			return s
		case <-done:
			return doneMsg{}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.Done && m.cancel != nil {
				m.cancel()
			}
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		m.Live, cmd = m.Live.Update(msg)
		m.Result, _ = m.Result.Update(msg)
		return m, cmd

	case runner.Snapshot:
		var cmd tea.Cmd
		m.Live, cmd = m.Live.Update(msg)
		return m, tea.Batch(cmd, waitForUpdate(m.Updates, m.done))

	case doneMsg:
		m.Done = true
		return m, nil
	}

	var cmd tea.Cmd
	m.Live, cmd = m.Live.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(styles.Title.Render("🚀 DevOps Demo Bench"))
	s.WriteString("\n\n")

	cfg := m.Runner.Cfg
	if cfg.Mode == runner.ModeUsers {
		s.WriteString(fmt.Sprintf("Mode: %s | Users: %d | ThinkTime: %s\n", cfg.Mode, cfg.NumUsers, cfg.ThinkTime))
	} else {
		s.WriteString(fmt.Sprintf("Mode: %s | Target RPS: %d\n", cfg.Mode, cfg.TargetRPS))
	}
	s.WriteString(styles.Subtle.Render("URL: " + cfg.URL))
	s.WriteString("\n\n")

	if m.Done {
		s.WriteString(m.Result.View())
	} else {
		s.WriteString(m.Live.View())
		s.WriteString("\n\n")
		s.WriteString(styles.RenderKey("q", "stop"))
	}
	return s.String()
}

// Run drives r under a full-screen TUI until the user quits. Quitting early
// cancels the run; Run returns once every request has finished.
func Run(ctx context.Context, r *runner.Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	p := tea.NewProgram(NewModel(r, cancel, done), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	<-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
