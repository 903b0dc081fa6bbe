package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/config"
	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

func newTestSession() *SessionModel {
	m := NewSessionModel(nil, testConfig(), nil, nil, log.New(io.Discard))
	m.Init()
	return m
}

func TestSessionPicksDifficultyBeforeGame(t *testing.T) {
	m := newTestSession()

	m.Update(keyMsg("enter"))
	require.NotNil(t, m.difficulty)
	assert.Nil(t, m.game)
	assert.Contains(t, m.View(), "Tetris (Guideline)")

	m.Update(keyMsg("down"))
	m.Update(keyMsg("down"))
	m.Update(keyMsg("enter"))
	require.NotNil(t, m.game)
	assert.Nil(t, m.difficulty)

	base, err := gametetris.RulesFor(config.PresetGuideline, "", nil)
	require.NoError(t, err)
	game, ok := m.game.game.(*gametetris.Game)
	require.True(t, ok)
	assert.Equal(t, "guideline", game.ID())
	assert.Equal(t, base.Level.Start+config.StartLevelForPreset(config.DifficultyHard), game.Rules().Level.Start)
	assert.False(t, m.quitting)
}

func TestSessionDifficultyBack(t *testing.T) {
	m := newTestSession()

	m.Update(keyMsg("enter"))
	require.NotNil(t, m.difficulty)
	m.Update(keyMsg("esc"))
	assert.Nil(t, m.difficulty)
	assert.Nil(t, m.game)
	assert.False(t, m.quitting)
	assert.Contains(t, m.View(), "T E T R I S")
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := newTestSession()

	m.Update(keyMsg("tab"))
	require.NotNil(t, m.scoreboard)
	assert.Contains(t, m.View(), "HIGH SCORES")

	m.Update(keyMsg("esc"))
	assert.Nil(t, m.scoreboard)
	assert.False(t, m.quitting)
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession()
	_, cmd := m.Update(keyMsg("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}
