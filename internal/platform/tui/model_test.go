package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gametetris "github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

func newTestGameModel(t *testing.T, store *storage.Store, opts GameOptions) *GameModel {
	t.Helper()
	game := gametetris.NewWithRules("test", "Test", engine.DefaultRules())
	m := NewGameModel(game, store, testConfig(), opts)
	m.Init()
	return m
}

func tickGame(m *GameModel) {
	m.Update(TickMsg{ID: m.tickID})
}

func TestGameModelHardDrop(t *testing.T) {
	m := newTestGameModel(t, nil, GameOptions{})

	m.Update(keyMsg(" "))
	tickGame(m)
	assert.Positive(t, m.State().Score)
	assert.False(t, m.State().GameOver)
}

func TestGameModelIgnoresStaleTicks(t *testing.T) {
	m := newTestGameModel(t, nil, GameOptions{})
	m.Update(keyMsg(" "))
	m.Update(TickMsg{ID: m.tickID + 1})
	assert.Zero(t, m.State().Score)
}

func TestGameModelPauseAndBack(t *testing.T) {
	m := newTestGameModel(t, nil, GameOptions{})

	// Back only works while paused or after a top out.
	m.Update(keyMsg("b"))
	assert.False(t, m.BackToMenu())

	m.Update(keyMsg("p"))
	tickGame(m)
	require.True(t, m.State().Paused)

	m.Update(keyMsg("b"))
	assert.True(t, m.BackToMenu())
}

func TestGameModelQuit(t *testing.T) {
	m := newTestGameModel(t, nil, GameOptions{})
	_, cmd := m.Update(keyMsg("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

// playToTopOut hard drops until the stack reaches the top.
func playToTopOut(t *testing.T, m *GameModel) {
	t.Helper()
	for range 2000 {
		if m.State().GameOver {
			return
		}
		m.Update(keyMsg(" "))
		tickGame(m)
		tickGame(m) // release
	}
	t.Fatal("game never topped out")
}

func TestGameModelSavesScoreAndReplay(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	recordPath := filepath.Join(dir, "game.replay")
	m := newTestGameModel(t, store, GameOptions{RecordPath: recordPath})
	playToTopOut(t, m)

	scores, err := store.TopScores("test", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, m.State().Score, scores[0].Score)
	assert.Equal(t, m.State().Lines, scores[0].Lines)

	data, err := store.Replay(scores[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	script, err := replay.LoadFile(recordPath)
	require.NoError(t, err)
	got, err := replay.Verify(script)
	require.NoError(t, err)
	assert.True(t, got.ToppedOut)
	assert.Equal(t, uint32(m.State().Score), got.Score)

	// Extra ticks after the top out do not save again.
	tickGame(m)
	scores, err = store.TopScores("test", 10)
	require.NoError(t, err)
	assert.Len(t, scores, 1)
}

func TestGameModelRestartAfterTopOut(t *testing.T) {
	m := newTestGameModel(t, nil, GameOptions{})
	playToTopOut(t, m)

	m.Update(keyMsg("r"))
	assert.False(t, m.State().GameOver)
	assert.Zero(t, m.State().Score)
}
