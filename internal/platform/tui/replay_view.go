package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

// ReplayKeyMap holds the bindings of the replay viewer.
type ReplayKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Pause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster: key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "slower")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

const maxReplaySpeed = 8

// ReplayModel plays a recorded script back.
type ReplayModel struct {
	script   *replay.Script
	player   *replay.Player
	screen   *core.Screen
	keys     ReplayKeyMap
	help     help.Model
	tickID   uint64
	speed    int
	paused   bool
	quitting bool
}

// NewReplayModel prepares a script for viewing.
func NewReplayModel(s *replay.Script, width, height int) (*ReplayModel, error) {
	player, err := replay.NewPlayer(s)
	if err != nil {
		return nil, err
	}
	return &ReplayModel{
		script: s,
		player: player,
		screen: core.NewScreen(width, height),
		keys:   defaultReplayKeyMap(),
		help:   help.New(),
		tickID: newTickID(),
		speed:  1,
	}, nil
}

// Init starts playback.
func (m *ReplayModel) Init() tea.Cmd {
	return tickCmd(m.tickID, m.script.Tick)
}

// Update handles messages.
func (m *ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = min(m.speed*2, maxReplaySpeed)
		case key.Matches(msg, m.keys.Slower):
			m.speed = max(m.speed/2, 1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		if !m.paused {
			for range m.speed {
				if m.player.Done() {
					break
				}
				m.player.Step()
			}
		}
		return m, tickCmd(m.tickID, m.script.Tick)
	}
	return m, nil
}

// View renders the replay.
func (m *ReplayModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	inst := m.player.Instance()
	w, h := gametetris.PanelSize(inst.Rules())
	if m.screen.Width() < w || m.screen.Height() < h+3 {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Window too small")
		return RenderScreen(m.screen)
	}

	x := (m.screen.Width() - w) / 2
	y := max((m.screen.Height()-h-3)/2, 0)
	title := fmt.Sprintf("REPLAY %s · seed %d", m.script.Preset, m.script.Seed)
	m.screen.DrawTextCentered(y, title)
	gametetris.DrawPanel(m.screen, inst, x, y+1)

	status := fmt.Sprintf("tick %d/%d · x%d", m.player.Position(), m.script.Ticks, m.speed)
	switch {
	case m.player.Done():
		status += " · finished"
	case m.paused:
		status += " · paused"
	}
	m.screen.DrawTextColored(max((m.screen.Width()-len([]rune(status)))/2, 0), y+h+1, status, core.ColorGray)

	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// RunReplay shows a replay in the terminal until the user quits.
func RunReplay(s *replay.Script, cfg core.RuntimeConfig) error {
	model, err := NewReplayModel(s, cfg.ScreenW, cfg.ScreenH-1)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
