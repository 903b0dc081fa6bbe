package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

// maxStartLevel is the highest level offered by the level picker.
const maxStartLevel = 20

// DifficultySelection holds the user's choice before a local game.
type DifficultySelection struct {
	Difficulty config.DifficultyPreset
	Level      int // 0 keeps the rules' start level
}

// Overrides returns the rule overrides the selection implies.
func (s DifficultySelection) Overrides() []string {
	if s.Level <= 0 {
		return nil
	}
	return []string{fmt.Sprintf("level.start=%d", s.Level)}
}

type difficultyOption struct {
	label  string
	preset config.DifficultyPreset
}

var difficultyOptions = []difficultyOption{
	{"Easy", config.DifficultyEasy},
	{"Normal", config.DifficultyNormal},
	{"Hard", config.DifficultyHard},
	{"Fixed level", config.DifficultyFixed},
	{"Select level...", ""},
}

// DifficultyModel lets users choose a difficulty or a start level.
type DifficultyModel struct {
	title         string
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	keys          MenuKeyMap
	help          help.Model
	selection     DifficultySelection
	choosing      bool
	quitting      bool
	back          bool
}

// NewDifficultyModel creates a new difficulty selection model.
func NewDifficultyModel(title string, width, height int) DifficultyModel {
	return DifficultyModel{
		title:    title,
		width:    width,
		height:   height,
		keys:     DefaultMenuKeyMap(),
		help:     help.New(),
		choosing: true,
	}
}

// Init initializes the model.
func (m DifficultyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DifficultyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inLevelSelect {
			return m.handleLevelSelectKey(msg)
		}
		return m.handleDifficultyKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m DifficultyModel) handleDifficultyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(difficultyOptions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		opt := difficultyOptions[m.cursor]
		if opt.preset == "" {
			m.inLevelSelect = true
			m.levelCursor = 0
			return m, nil
		}
		m.choosing = false
		m.selection = DifficultySelection{Difficulty: opt.preset}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m DifficultyModel) handleLevelSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.levelCursor < maxStartLevel-1 {
			m.levelCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.choosing = false
		m.selection = DifficultySelection{Level: m.levelCursor + 1}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.inLevelSelect = false
	}
	return m, nil
}

// View renders the difficulty or level selection.
func (m DifficultyModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{titleStyle.Render(m.title), ""}
	if m.inLevelSelect {
		lines = append(lines, "Start at level:", "")
		// Show a window of levels around the cursor.
		first := max(0, min(m.levelCursor-4, maxStartLevel-9))
		for i := first; i < min(first+9, maxStartLevel); i++ {
			lines = append(lines, m.option(i == m.levelCursor, fmt.Sprintf("Level %2d", i+1)))
		}
	} else {
		lines = append(lines, "Select difficulty:", "")
		for i, opt := range difficultyOptions {
			lines = append(lines, m.option(i == m.cursor, opt.label))
		}
	}
	lines = append(lines, "", m.help.View(m.keys))

	return centerBlock(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m DifficultyModel) option(selected bool, label string) string {
	line := fmt.Sprintf("%-16s", label)
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

// Selected returns the selection, or nil if still choosing.
func (m DifficultyModel) Selected() *DifficultySelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m DifficultyModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m DifficultyModel) WantsBack() bool {
	return m.back
}

// RunDifficultySelector asks for a difficulty before a local game. A nil
// selection means the user backed out or quit.
func RunDifficultySelector(title string, cfg core.RuntimeConfig) (*DifficultySelection, error) {
	model := NewDifficultyModel(title, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(DifficultyModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
