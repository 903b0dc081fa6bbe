package tui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// GameOptions tune a GameModel beyond the runtime config.
type GameOptions struct {
	// RecordPath, when set, receives the replay of every finished game.
	RecordPath string
	// Logger receives persistence warnings. Nil discards them.
	Logger *log.Logger
}

// GameModel is the Bubble Tea model that runs one mode.
type GameModel struct {
	game     registry.Game
	screen   *core.Screen
	store    *storage.Store
	config   core.RuntimeConfig
	opts     GameOptions
	keys     KeyMap
	keyboard *keyboard
	tickID   uint64

	recorder  *replay.Recorder
	gameState core.GameState

	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for game. A zero seed picks one from the clock.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) *GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = clockSeed()
	}

	return &GameModel{
		game:     game,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:    store,
		config:   cfg,
		opts:     opts,
		keys:     DefaultKeyMap(),
		keyboard: newKeyboard(),
		tickID:   newTickID(),
	}
}

func clockSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Init starts the game and the tick loop.
func (m *GameModel) Init() tea.Cmd {
	m.start()
	return tickCmd(m.tickID, m.config.TickDuration())
}

func (m *GameModel) start() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.keyboard.Reset()

	m.recorder = nil
	if g, ok := m.game.(*gametetris.Game); ok && g.Instance() != nil {
		m.recorder = replay.NewRecorder(g.ID(), g.Rules(), m.config.Seed, m.config.TickDuration())
		g.SetRecorder(m.recorder)
	}
}

// Update handles messages and updates the model state.
func (m *GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(interface{ Resize(w, h int) }); ok {
			r.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m *GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.config.Seed = clockSeed()
			m.start()
		}
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
		}
	case core.ActionPause:
		m.keyboard.Reset()
		m.keyboard.Key(action)
	case core.ActionNone:
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
		}
	default:
		m.keyboard.Key(action)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m *GameModel) handleTick() (tea.Model, tea.Cmd) {
	dt := m.config.TickDuration()
	result := m.game.Step(m.keyboard.Flush(dt))
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveResult()
		m.scoreSaved = true
	}

	return m, tickCmd(m.tickID, dt)
}

// saveResult stores the score and the replay of a finished game.
func (m *GameModel) saveResult() {
	var script *replay.Script
	if g, ok := m.game.(*gametetris.Game); ok && m.recorder != nil {
		script = m.recorder.Script(g.Instance())
	}

	if script != nil && m.opts.RecordPath != "" {
		if err := replay.SaveFile(m.opts.RecordPath, script); err != nil {
			m.warn("could not write replay", "path", m.opts.RecordPath, "err", err)
		}
	}

	if m.store == nil || m.gameState.Score == 0 {
		return
	}
	id, err := m.store.SaveScore(storage.ScoreEntry{
		Mode:  m.game.ID(),
		Score: m.gameState.Score,
		Lines: m.gameState.Lines,
		Level: m.gameState.Level,
	})
	if err != nil {
		m.warn("could not save score", "err", err)
		return
	}
	if script == nil {
		return
	}
	var buf bytes.Buffer
	if err := replay.Save(&buf, script); err != nil {
		m.warn("could not encode replay", "err", err)
		return
	}
	if err := m.store.SaveReplay(id, buf.Bytes()); err != nil {
		m.warn("could not save replay", "err", err)
	}
}

func (m *GameModel) warn(msg string, kv ...any) {
	if m.opts.Logger != nil {
		m.opts.Logger.Warn(msg, kv...)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tetris", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.warn("could not create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600); err != nil {
		m.warn("could not save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m *GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last stepped game state.
func (m *GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m *GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m *GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the terminal until the user quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) error {
	model := NewGameModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
