package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	ModeID      string
	Title       string
	Description string
	Mode        multiplayer.MatchMode
}

// MenuModel is the Bubble Tea model for the mode picker. A looping preview
// game plays next to the list.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	highScores map[string]int
	width      int
	height     int
	config     core.RuntimeConfig
	keys       MenuKeyMap
	help       help.Model

	preview       *replay.Player
	previewScreen *core.Screen
	previewTick   time.Duration
	tickID        uint64

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model. With versus set, every preset also
// gets an online versus entry.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, versus bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)*2)
	for _, g := range games {
		items = append(items, MenuItem{
			ModeID:      g.ID,
			Title:       g.Title,
			Description: g.Description,
			Mode:        multiplayer.MatchModeSolo,
		})
	}
	if versus {
		for _, g := range games {
			items = append(items, MenuItem{
				ModeID:      g.ID,
				Title:       g.Title + " Versus",
				Description: "Online match against another player on this server",
				Mode:        multiplayer.MatchModeVersus,
			})
		}
	}

	highScores := make(map[string]int)
	if store != nil {
		for _, g := range games {
			if hs, err := store.HighScore(g.ID); err == nil && hs > 0 {
				highScores[g.ID] = hs
			}
		}
	}

	m := MenuModel{
		items:      items,
		highScores: highScores,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
		tickID:     newTickID(),
	}

	script := replay.PreviewScript()
	if player, err := replay.NewLoopingPlayer(script); err == nil {
		w, h := gametetris.PanelSize(*script.Rules)
		m.preview = player
		m.previewScreen = core.NewScreen(w, h)
		m.previewTick = script.Tick
	}
	return m
}

// Init starts the preview animation.
func (m MenuModel) Init() tea.Cmd {
	if m.preview == nil {
		return nil
	}
	return tickCmd(m.tickID, m.previewTick)
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID || m.preview == nil || m.selected != nil || m.quitting {
			return m, nil
		}
		m.preview.Step()
		return m, tickCmd(m.tickID, m.previewTick)
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var list strings.Builder
	list.WriteString(titleStyle.Render("T E T R I S"))
	list.WriteString("\n\n")

	for i, item := range m.items {
		line := item.Title
		if hs, ok := m.highScores[item.ModeID]; ok && item.Mode == multiplayer.MatchModeSolo {
			line = fmt.Sprintf("%-22s %8d", item.Title, hs)
		}
		if i == m.cursor {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")
	}

	if len(m.items) > 0 {
		list.WriteString("\n")
		list.WriteString(dimStyle.Width(34).Render(m.items[m.cursor].Description))
		list.WriteString("\n")
	}

	body := list.String()
	if m.preview != nil && m.width >= lipgloss.Width(body)+m.previewScreen.Width()+8 {
		m.previewScreen.Clear()
		gametetris.DrawPanel(m.previewScreen, m.preview.Instance(), 0, 0)
		panel := previewStyle.Render(RenderScreen(m.previewScreen))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "   ", panel)
	}

	view := lipgloss.JoinVertical(lipgloss.Center, body, "", m.help.View(m.keys))
	return centerBlock(m.width, m.height, view)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	ModeID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg, false)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.ModeID = m.Selected().ModeID
	}
	return result, nil
}
