package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// palette holds the ANSI color of each core.Color, indexed by its value.
var palette = [...]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           fg("1"),
	core.ColorGreen:         fg("2"),
	core.ColorYellow:        fg("3"),
	core.ColorBlue:          fg("4"),
	core.ColorMagenta:       fg("5"),
	core.ColorCyan:          fg("6"),
	core.ColorWhite:         fg("7"),
	core.ColorBrightRed:     fg("9"),
	core.ColorBrightGreen:   fg("10"),
	core.ColorBrightYellow:  fg("11"),
	core.ColorBrightBlue:    fg("12"),
	core.ColorBrightMagenta: fg("13"),
	core.ColorBrightCyan:    fg("14"),
	core.ColorBrightWhite:   fg("15").Bold(true),
	core.ColorOrange:        fg("208"),
	core.ColorGray:          fg("240"),
}

func fg(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

func styleOf(c core.Color) lipgloss.Style {
	if int(c) < len(palette) {
		return palette[c]
	}
	return palette[core.ColorDefault]
}

var (
	titleStyle    = fg("14").Bold(true).Padding(0, 2)
	selectedStyle = fg("11").Bold(true)
	dimStyle      = fg("245")
	errorStyle    = fg("9")
	codeStyle     = fg("11").Bold(true).Padding(0, 2).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6"))
	previewStyle = lipgloss.NewStyle().Padding(0, 1).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// RenderScreen styles a screen for the terminal. Each run of same-colored
// cells on a row is rendered once.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	var run strings.Builder
	for y := range rows {
		var row strings.Builder
		line := s.Line(y)
		for start := 0; start < len(line); {
			color := line[start].Color
			run.Reset()
			end := start
			for ; end < len(line) && line[end].Color == color; end++ {
				run.WriteRune(line[end].Rune)
			}
			row.WriteString(styleOf(color).Render(run.String()))
			start = end
		}
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}

// centerBlock places block in the middle of a width×height area.
func centerBlock(width, height int, block string) string {
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
