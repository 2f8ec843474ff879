package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-micro/internal/core"
)

// colorStyles maps the game palette to terminal colours.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorPipe:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	core.ColorPipeCap: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	core.ColorBird:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	core.ColorBeak:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGround:  lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
	core.ColorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

// RenderScreen converts a Screen to styled text. Adjacent cells of the same
// colour share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
