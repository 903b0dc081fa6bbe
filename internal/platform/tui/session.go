package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// SessionModel is one SSH connection. It starts on the menu and moves to
// a single screen at a time: the difficulty picker and then a game, a
// versus lobby, or the scoreboard. Leaving any of them returns to a fresh
// menu.
//
// Each session resolves its own rules, so difficulty picks never leak
// between connections.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	session     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator
	logger      *log.Logger

	menu       MenuModel
	pending    *MenuItem // chosen mode waiting for a difficulty
	difficulty *DifficultyModel
	game       *GameModel
	versus     *VersusModel
	scoreboard *ScoreboardModel
	quitting   bool
}

// NewSessionModel starts a connection on the menu.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	session *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
	logger *log.Logger,
) *SessionModel {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionModel{
		store:       store,
		config:      cfg,
		session:     session,
		coordinator: coordinator,
		logger:      logger,
		menu:        NewMenuModel(store, cfg, coordinator != nil),
	}
}

// Init implements tea.Model.
func (m *SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update implements tea.Model.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW, m.config.ScreenH = size.Width, size.Height
	}

	var (
		cmd        tea.Cmd
		back, quit bool
	)
	switch {
	case m.game != nil:
		_, cmd = m.game.Update(msg)
		back, quit = m.game.BackToMenu(), m.game.IsQuitting()
	case m.versus != nil:
		_, cmd = m.versus.Update(msg)
		back, quit = m.versus.BackToMenu(), m.versus.IsQuitting()
	case m.scoreboard != nil:
		var next tea.Model
		next, cmd = m.scoreboard.Update(msg)
		*m.scoreboard = next.(ScoreboardModel)
		back, quit = m.scoreboard.IsGoingBack(), m.scoreboard.IsQuitting()
	case m.difficulty != nil:
		return m.updateDifficulty(msg)
	default:
		return m.updateMenu(msg)
	}

	switch {
	case quit:
		m.quitting = true
		return m, tea.Quit
	case back:
		return m, m.toMenu()
	}
	return m, cmd
}

func (m *SessionModel) toMenu() tea.Cmd {
	m.pending, m.difficulty = nil, nil
	m.game, m.versus, m.scoreboard = nil, nil, nil
	m.menu = NewMenuModel(m.store, m.config, m.coordinator != nil)
	return m.menu.Init()
}

func (m *SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch item := m.menu.Selected(); {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		return m, sb.Init()

	case item != nil && item.Mode == multiplayer.MatchModeVersus:
		m.config = m.menu.Config()
		m.versus = NewVersusModel(item.ModeID, m.session, m.coordinator, m.config, m.logger)
		return m, m.versus.Init()

	case item != nil:
		m.config = m.menu.Config()
		m.pending = item
		d := NewDifficultyModel(item.Title, m.config.ScreenW, m.config.ScreenH)
		m.difficulty = &d
		return m, d.Init()
	}
	return m, cmd
}

// updateDifficulty drops the picker's own quit commands: in a shared
// program they would end the connection.
func (m *SessionModel) updateDifficulty(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.difficulty.Update(msg)
	*m.difficulty = next.(DifficultyModel)

	switch sel := m.difficulty.Selected(); {
	case m.difficulty.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.difficulty.WantsBack():
		return m, m.toMenu()
	case sel != nil:
		return m, m.startGame(*m.pending, *sel)
	}
	return m, cmd
}

func (m *SessionModel) startGame(item MenuItem, sel DifficultySelection) tea.Cmd {
	rules, err := gametetris.RulesFor(config.Preset(item.ModeID), sel.Difficulty, sel.Overrides())
	if err != nil {
		m.logger.Error("cannot resolve rules", "mode", item.ModeID, "err", err)
		return m.toMenu()
	}
	m.pending, m.difficulty = nil, nil

	cfg := m.config
	cfg.Seed = 0
	game := gametetris.NewWithRules(item.ModeID, item.Title, rules)
	m.game = NewGameModel(game, m.store, cfg, GameOptions{Logger: m.logger})
	return m.game.Init()
}

// View implements tea.Model.
func (m *SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.versus != nil:
		return m.versus.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	case m.difficulty != nil:
		return m.difficulty.View()
	}
	return m.menu.View()
}
