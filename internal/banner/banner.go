package banner

import (
	"devopsdemo/internal/buildinfo"
	"devopsdemo/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const ascii = `
     _                                _                    
  __| | _____   _____  _ __  ___   __| | ___ _ __ ___   ___  
 / _' |/ _ \ \ / / _ \| '_ \/ __| / _' |/ _ \ '_ ' _ \ / _ \ 
| (_| |  __/\ V / (_) | |_) \__ \| (_| |  __/ | | | | | (_) |
 \__,_|\___| \_/ \___/| .__/|___/ \__,_|\___|_| |_| |_|\___/ 
                      |_|                                    `

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	art := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	sub := renderer.NewStyle().Foreground(styles.ColorSubtle)

	return "\n" + art.Render(ascii) + "\n" + sub.Render(buildinfo.String()) + "\n"
}
