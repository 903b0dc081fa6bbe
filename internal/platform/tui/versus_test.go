package tui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

type versusPair struct {
	coordinator *multiplayer.Coordinator
	hostSession *multiplayer.ChannelSession
	joinSession *multiplayer.ChannelSession
	host        *VersusModel
	joiner      *VersusModel
}

func newVersusPair(t *testing.T) *versusPair {
	t.Helper()
	sessions := multiplayer.NewSessionRegistry()
	rules := func(string) (engine.Rules, error) { return engine.DefaultRules(), nil }
	c := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), rules, sessions)
	logger := log.New(io.Discard)
	c.SetLogger(logger)
	c.Start()

	hs := multiplayer.NewChannelSession("host", 16)
	js := multiplayer.NewChannelSession("joiner", 16)
	sessions.Register(hs)
	sessions.Register(js)
	t.Cleanup(func() {
		hs.Close()
		js.Close()
		c.Stop()
	})

	cfg := testConfig()
	return &versusPair{
		coordinator: c,
		hostSession: hs,
		joinSession: js,
		host:        NewVersusModel("guideline", hs, c, cfg, logger),
		joiner:      NewVersusModel("guideline", js, c, cfg, logger),
	}
}

// pump delivers the next control event of s to m, the way waitForEvent would.
func pump(t *testing.T, m *VersusModel, s *multiplayer.ChannelSession) multiplayer.SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		m.Update(evt)
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("session %s: no event", s.ID())
		return nil
	}
}

func pumpSnapshot(t *testing.T, m *VersusModel, s *multiplayer.ChannelSession) {
	t.Helper()
	select {
	case snap := <-s.Snapshots():
		m.Update(snap)
	case <-time.After(2 * time.Second):
		t.Fatalf("session %s: no snapshot", s.ID())
	}
}

func typeKeys(m *VersusModel, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

// start hosts a lobby, joins it and delivers the match start to both sides.
func (p *versusPair) start(t *testing.T) {
	t.Helper()

	typeKeys(p.host, "h")
	created, ok := pump(t, p.host, p.hostSession).(multiplayer.LobbyCreatedEvent)
	require.True(t, ok)
	require.Equal(t, VersusHostWaiting, p.host.State())
	assert.Contains(t, p.host.View(), created.Code)

	typeKeys(p.joiner, "j")
	require.Equal(t, VersusJoinEnterCode, p.joiner.State())
	typeKeys(p.joiner, created.Code, "enter")
	require.Equal(t, VersusJoinWaiting, p.joiner.State())

	assert.IsType(t, multiplayer.LobbyJoinedEvent{}, pump(t, p.host, p.hostSession))
	assert.IsType(t, multiplayer.MatchStartedEvent{}, pump(t, p.host, p.hostSession))
	assert.IsType(t, multiplayer.LobbyJoinedEvent{}, pump(t, p.joiner, p.joinSession))
	assert.IsType(t, multiplayer.MatchStartedEvent{}, pump(t, p.joiner, p.joinSession))

	require.Equal(t, VersusPlaying, p.host.State())
	require.Equal(t, VersusPlaying, p.joiner.State())
}

func TestVersusMatchMirrorsOpponent(t *testing.T) {
	p := newVersusPair(t)
	p.start(t)

	// Same rules and seed on both sides: identical starting games.
	assert.Equal(t, p.host.Local().Playfield().Cells(), p.joiner.Local().Playfield().Cells())

	// Both sides published on start; each receives the other's board.
	pumpSnapshot(t, p.host, p.hostSession)
	require.NotNil(t, p.host.Opponent())
	assert.Equal(t, p.joiner.Local().Playfield().Cells(), p.host.Opponent().Playfield().Cells())

	// A hard drop on the joiner shows up on the host's mirror.
	typeKeys(p.joiner, " ")
	p.joiner.Update(TickMsg{ID: p.joiner.tickID})
	require.Positive(t, p.joiner.Local().Score())

	pumpSnapshot(t, p.host, p.hostSession)
	assert.Equal(t, p.joiner.Local().Score(), p.host.Opponent().Score())
	assert.Equal(t, p.joiner.Local().Playfield().Cells(), p.host.Opponent().Playfield().Cells())

	view := p.host.View()
	assert.Contains(t, view, "YOU")
	assert.Contains(t, view, "OPPONENT")
}

func TestVersusForfeitEndsMatch(t *testing.T) {
	p := newVersusPair(t)
	p.start(t)

	typeKeys(p.host, "b")
	assert.True(t, p.host.BackToMenu())

	ended, ok := pump(t, p.joiner, p.joinSession).(multiplayer.MatchEndedEvent)
	require.True(t, ok)
	assert.Equal(t, multiplayer.MatchEndReasonDisconnect, ended.Reason)
	assert.Equal(t, multiplayer.Player2, ended.Winner)

	assert.Equal(t, VersusEnded, p.joiner.State())
	assert.Contains(t, p.joiner.View(), "YOU WIN")

	typeKeys(p.joiner, "enter")
	assert.True(t, p.joiner.BackToMenu())
}

func TestVersusJoinUnknownCode(t *testing.T) {
	p := newVersusPair(t)

	typeKeys(p.joiner, "j", "ZZZZZZ", "enter")
	require.Equal(t, VersusJoinWaiting, p.joiner.State())

	errEvt, ok := pump(t, p.joiner, p.joinSession).(multiplayer.LobbyErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "Lobby not found", errEvt.Message)
	assert.Equal(t, VersusJoinEnterCode, p.joiner.State())
	assert.Contains(t, p.joiner.View(), "Lobby not found")
}

func TestVersusHostCancelClosesLobby(t *testing.T) {
	p := newVersusPair(t)

	typeKeys(p.host, "h")
	pump(t, p.host, p.hostSession)
	require.Equal(t, VersusHostWaiting, p.host.State())

	typeKeys(p.host, "esc")
	assert.True(t, p.host.BackToMenu())
	assert.Eventually(t, func() bool { return p.coordinator.LobbyCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestVersusEndWithoutMatchReturnsToChooser(t *testing.T) {
	p := newVersusPair(t)
	p.joiner.Update(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonHostLeft})
	assert.Equal(t, VersusChooseMode, p.joiner.State())
	assert.Contains(t, p.joiner.View(), "Host left")
}
