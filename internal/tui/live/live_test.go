package live

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"devopsdemo/internal/runner"
)

func TestPercent(t *testing.T) {
	m := NewModel(10 * time.Second)

	assert.InDelta(t, 0.5, m.Percent(m.StartTime.Add(5*time.Second)), 0.001)
	assert.Equal(t, 1.0, m.Percent(m.StartTime.Add(time.Minute)))
	assert.Equal(t, 1.0, NewModel(0).Percent(time.Now()))
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := NewModel(time.Second).Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, 96, m.Progress.Width)
	assert.Equal(t, 46, m.RpsLine.Width)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 10, m.LatencyLine.Width)
}

func TestUpdate_ErrorRateInView(t *testing.T) {
	m, _ := NewModel(time.Second).Update(runner.Snapshot{Requests: 10, Fail: 1})

	assert.Contains(t, m.View(), "ERR: 10.00%")
	assert.Len(t, m.RpsLine.Data, 1)
}
