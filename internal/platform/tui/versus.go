package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

// VersusState represents the current state of the versus flow.
type VersusState int

const (
	VersusChooseMode    VersusState = iota // Choose Host or Join
	VersusHostWaiting                      // Hosting, waiting for joiner
	VersusJoinEnterCode                    // Entering join code
	VersusJoinWaiting                      // Waiting to connect to host
	VersusPlaying                          // In active match
	VersusEnded                            // Match has ended
)

// versusGap is the number of columns between the two boards.
const versusGap = 4

// VersusModel runs the lobby flow and then a match. Each side simulates its
// own game and publishes encoded snapshots; the opponent board only mirrors
// the latest snapshot received.
type VersusModel struct {
	state       VersusState
	width       int
	height      int
	keys        KeyMap
	menuKeys    MenuKeyMap
	preset      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession
	logger      *log.Logger

	// Lobby state
	lobbyCode string
	codeInput textinput.Model
	joinError string

	// Match state
	matchID  multiplayer.MatchID
	side     multiplayer.PlayerID
	rules    engine.Rules
	seed     uint64
	config   core.RuntimeConfig
	tickID   uint64
	local    *engine.Instance
	buttons  *core.ButtonSet
	keyboard *keyboard
	opponent *engine.Instance
	screen   *core.Screen
	ended    *multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewVersusModel creates the versus flow for a preset.
func NewVersusModel(
	preset string,
	session *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
	cfg core.RuntimeConfig,
	logger *log.Logger,
) *VersusModel {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = 6
	ti.Width = 8
	ti.Prompt = "› "

	if logger == nil {
		logger = log.Default()
	}

	return &VersusModel{
		state:       VersusChooseMode,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		keys:        DefaultKeyMap(),
		menuKeys:    DefaultMenuKeyMap(),
		preset:      preset,
		sessionID:   session.ID(),
		coordinator: coordinator,
		session:     session,
		logger:      logger,
		codeInput:   ti,
		config:      cfg,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
	}
}

// Init starts listening for coordinator events.
func (m *VersusModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next control event.
func (m *VersusModel) waitForEvent() tea.Cmd {
	events, done := m.session.Events(), m.session.Done()
	return func() tea.Msg {
		select {
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			return evt
		case <-done:
			return nil
		}
	}
}

// waitForSnapshot returns a command that waits for the opponent's next snapshot.
func (m *VersusModel) waitForSnapshot() tea.Cmd {
	snapshots, done := m.session.Snapshots(), m.session.Done()
	return func() tea.Msg {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			return snap
		case <-done:
			return nil
		}
	}
}

// Update handles messages.
func (m *VersusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID || m.state != VersusPlaying {
			return m, nil
		}
		return m.handleTick()

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = VersusHostWaiting
		return m, m.waitForEvent()

	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		return m, m.waitForEvent()

	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case VersusJoinWaiting:
			m.state = VersusJoinEnterCode
			return m, tea.Batch(m.waitForEvent(), m.codeInput.Focus())
		case VersusHostWaiting:
			m.lobbyCode = ""
			m.state = VersusChooseMode
		}
		return m, m.waitForEvent()

	case multiplayer.LobbyPlayerLeftEvent:
		return m, m.waitForEvent()

	case multiplayer.MatchStartedEvent:
		return m, m.startMatch(msg)

	case multiplayer.SnapshotEvent:
		if m.state != VersusPlaying || msg.MatchID != m.matchID {
			return m, nil
		}
		m.applySnapshot(msg.Data)
		return m, m.waitForSnapshot()

	case multiplayer.MatchEndedEvent:
		if msg.MatchID != "" && msg.MatchID != m.matchID {
			return m, m.waitForEvent()
		}
		if m.local == nil || m.state != VersusPlaying {
			m.joinError = msg.Reason.String()
			m.lobbyCode = ""
			m.state = VersusChooseMode
			return m, m.waitForEvent()
		}
		m.ended = &msg
		m.state = VersusEnded
		return m, m.waitForEvent()
	}

	if m.state == VersusJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *VersusModel) startMatch(evt multiplayer.MatchStartedEvent) tea.Cmd {
	local, err := engine.NewInstance(evt.Rules, evt.Seed)
	if err != nil {
		m.logger.Error("cannot start versus game", "match", evt.MatchID, "err", err)
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: evt.MatchID})
		m.joinError = "Failed to create game"
		m.state = VersusChooseMode
		return m.waitForEvent()
	}

	m.matchID = evt.MatchID
	m.side = evt.Side
	m.rules = evt.Rules
	m.seed = evt.Seed
	m.local = local
	m.buttons = core.NewButtonSet()
	m.keyboard = newKeyboard()
	m.opponent = nil
	m.ended = nil
	m.tickID = newTickID()
	m.state = VersusPlaying

	m.publish()
	return tea.Batch(
		m.waitForEvent(),
		m.waitForSnapshot(),
		tickCmd(m.tickID, m.config.TickDuration()),
	)
}

// publish sends the local snapshot to the coordinator.
func (m *VersusModel) publish() {
	data, err := engine.EncodeSnapshot(m.local.ToNetwork())
	if err != nil {
		m.logger.Error("cannot encode snapshot", "match", m.matchID, "err", err)
		return
	}
	m.coordinator.Send(multiplayer.SnapshotMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Data:    data,
	})
}

// applySnapshot mirrors the opponent's latest state.
func (m *VersusModel) applySnapshot(data []byte) {
	snap, err := engine.DecodeSnapshot(data)
	if err != nil {
		m.logger.Debug("dropping opponent snapshot", "match", m.matchID, "err", err)
		return
	}
	if m.opponent == nil {
		inst, err := engine.FromNetwork(m.rules, m.seed, snap)
		if err != nil {
			m.logger.Debug("dropping opponent snapshot", "match", m.matchID, "err", err)
			return
		}
		m.opponent = inst
		return
	}
	if err := m.opponent.UpdateFromNetwork(snap); err != nil {
		m.logger.Debug("dropping opponent snapshot", "match", m.matchID, "err", err)
	}
}

func (m *VersusModel) handleTick() (tea.Model, tea.Cmd) {
	dt := m.config.TickDuration()
	if !m.local.HasToppedOut() {
		m.buttons.Advance(dt, m.keyboard.Flush(dt))
		if m.local.Update(dt, m.buttons) {
			m.publish()
		}
	}
	return m, tickCmd(m.tickID, dt)
}

func (m *VersusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case VersusChooseMode:
		return m.handleChooseModeKey(msg)
	case VersusHostWaiting:
		return m.handleHostWaitingKey(msg)
	case VersusJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case VersusJoinWaiting:
		if key.Matches(msg, m.menuKeys.Back) {
			m.coordinator.Send(multiplayer.LeaveLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.code(),
			})
			m.state = VersusJoinEnterCode
		}
	case VersusPlaying:
		return m.handlePlayingKey(msg)
	case VersusEnded:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.menuKeys.Back), key.Matches(msg, m.menuKeys.Select):
			m.backToMenu = true
		}
	}

	return m, nil
}

func (m *VersusModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "h" || msg.String() == "1":
		m.joinError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			Preset:    m.preset,
		})
		return m, nil
	case msg.String() == "j" || msg.String() == "2":
		m.state = VersusJoinEnterCode
		m.joinError = ""
		m.codeInput.SetValue("")
		return m, m.codeInput.Focus()
	case key.Matches(msg, m.menuKeys.Back):
		m.backToMenu = true
	case key.Matches(msg, m.menuKeys.Quit):
		return m.quit()
	}
	return m, nil
}

func (m *VersusModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.menuKeys.Back):
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.lobbyCode = ""
		m.backToMenu = true
	case key.Matches(msg, m.menuKeys.Quit):
		return m.quit()
	}
	return m, nil
}

func (m *VersusModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.codeInput.Blur()
		m.backToMenu = true
		return m, nil
	case tea.KeyEnter:
		if m.code() == "" {
			return m, nil
		}
		m.state = VersusJoinWaiting
		m.joinError = ""
		m.codeInput.Blur()
		m.coordinator.Send(multiplayer.JoinLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.code(),
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	m.codeInput.SetValue(strings.ToUpper(m.codeInput.Value()))
	return m, cmd
}

func (m *VersusModel) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		return m.quit()
	case core.ActionBack:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
		m.backToMenu = true
	case core.ActionNone, core.ActionPause, core.ActionRestart:
	default:
		m.keyboard.Key(action)
	}
	return m, nil
}

// quit leaves whatever lobby or match the session is in and exits.
func (m *VersusModel) quit() (tea.Model, tea.Cmd) {
	switch m.state {
	case VersusHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case VersusJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.code()})
	case VersusPlaying:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *VersusModel) code() string {
	return strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
}

// View renders the current state.
func (m *VersusModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case VersusPlaying, VersusEnded:
		return m.viewMatch()
	}

	var lines []string
	switch m.state {
	case VersusChooseMode:
		lines = []string{
			titleStyle.Render("VERSUS · " + strings.ToUpper(m.preset)),
			"",
			"[H] Host a game",
			"[J] Join a game",
		}
		if m.joinError != "" {
			lines = append(lines, "", errorStyle.Render(m.joinError))
		}
		lines = append(lines, "", dimStyle.Render("esc back · q quit"))
	case VersusHostWaiting:
		lines = []string{
			titleStyle.Render("HOSTING GAME"),
			"",
			"Share this code with your opponent:",
			codeStyle.Render(m.lobbyCode),
			"Waiting for player to join...",
			"",
			dimStyle.Render("esc cancel · q quit"),
		}
	case VersusJoinEnterCode:
		lines = []string{
			titleStyle.Render("JOIN GAME"),
			"",
			"Enter the game code:",
			"",
			m.codeInput.View(),
		}
		if m.joinError != "" {
			lines = append(lines, "", errorStyle.Render("Error: "+m.joinError))
		}
		lines = append(lines, "", dimStyle.Render("enter connect · esc back"))
	case VersusJoinWaiting:
		lines = []string{
			titleStyle.Render("CONNECTING"),
			"",
			fmt.Sprintf("Joining game: %s", m.code()),
			"Please wait...",
			"",
			dimStyle.Render("esc cancel"),
		}
	}

	return centerBlock(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// viewMatch draws both boards side by side, the local one on the left.
func (m *VersusModel) viewMatch() string {
	m.screen.Clear()

	w, h := gametetris.PanelSize(m.rules)
	totalW := 2*w + versusGap
	if m.width < totalW || m.height < h+2 {
		m.screen.DrawTextCentered(m.height/2, "Window too small")
		m.screen.DrawTextCentered(m.height/2+1, fmt.Sprintf("Need %dx%d", totalW, h+2))
		return RenderScreen(m.screen)
	}

	x := (m.width - totalW) / 2
	y := max((m.height-h-2)/2, 0)
	ox := x + w + versusGap

	m.screen.DrawTextColored(x+(w-3)/2, y, "YOU", core.ColorBrightCyan)
	m.screen.DrawTextColored(ox+(w-8)/2, y, "OPPONENT", core.ColorBrightRed)
	gametetris.DrawPanel(m.screen, m.local, x, y+1)
	if m.opponent != nil {
		gametetris.DrawPanel(m.screen, m.opponent, ox, y+1)
	} else {
		m.screen.DrawTextColored(ox+(w-10)/2, y+1+h/2, "waiting...", core.ColorGray)
	}

	status := "b forfeit · q quit"
	if m.ended != nil {
		status = m.outcome() + " · enter/esc menu · q quit"
	} else if m.local.HasToppedOut() {
		status = "Topped out. Waiting for result..."
	}
	m.screen.DrawTextColored(max((m.width-len([]rune(status)))/2, 0), y+h+1, status, core.ColorBrightWhite)

	return RenderScreen(m.screen)
}

func (m *VersusModel) outcome() string {
	switch {
	case m.ended == nil:
		return ""
	case m.ended.Winner == m.side:
		return "YOU WIN"
	case m.ended.Winner == multiplayer.NoPlayer:
		return m.ended.Reason.String()
	default:
		return "YOU LOSE"
	}
}

// State returns the current versus state.
func (m *VersusModel) State() VersusState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m *VersusModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m *VersusModel) IsQuitting() bool {
	return m.quitting
}

// Local returns the local game of the current match.
func (m *VersusModel) Local() *engine.Instance {
	return m.local
}

// Opponent returns the mirrored opponent game, or nil before the first snapshot.
func (m *VersusModel) Opponent() *engine.Instance {
	return m.opponent
}
