package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

var namedKeys = map[string]tea.KeyType{
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	" ":         tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
}

// keyMsg builds the key message a terminal would deliver for s.
func keyMsg(s string) tea.KeyMsg {
	if t, ok := namedKeys[s]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 100, ScreenH: 40, TickRate: 60, Seed: 42}
}
