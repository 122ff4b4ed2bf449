package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSparkline_WindowAndMax(t *testing.T) {
	s := NewSparkline(3, 1, "rps", lipgloss.NewStyle())
	for _, v := range []uint64{9, 1, 2, 3} {
		s.Add(v)
	}

	assert.Equal(t, []uint64{1, 2, 3}, s.Data)
	assert.Equal(t, uint64(3), s.Max)
}

func TestSparkline_View(t *testing.T) {
	s := NewSparkline(4, 1, "rps", lipgloss.NewStyle())
	s.Add(0)
	s.Add(8)

	out := s.View()
	assert.Contains(t, out, "rps\n")
	assert.Contains(t, out, "█")

	s.Width = 0
	assert.Empty(t, s.View())
}
