package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

func newTestReplay(t *testing.T) *ReplayModel {
	t.Helper()
	script := replay.NewBuilder(engine.DefaultRules(), 9, time.Second/60).
		Wait(5).
		Tap(core.ActionHardDrop, 1).
		Wait(10).
		Script()
	m, err := NewReplayModel(script, 100, 40)
	require.NoError(t, err)
	return m
}

func TestReplayModelPlaysAtSpeed(t *testing.T) {
	m := newTestReplay(t)

	m.Update(TickMsg{ID: m.tickID})
	assert.Equal(t, 1, m.player.Position())

	m.Update(keyMsg("+"))
	m.Update(keyMsg("+"))
	assert.Equal(t, 4, m.speed)
	m.Update(TickMsg{ID: m.tickID})
	assert.Equal(t, 5, m.player.Position())

	m.Update(keyMsg("-"))
	assert.Equal(t, 2, m.speed)
	assert.Contains(t, m.View(), "x2")
}

func TestReplayModelPause(t *testing.T) {
	m := newTestReplay(t)
	m.Update(keyMsg("p"))
	m.Update(TickMsg{ID: m.tickID})
	assert.Zero(t, m.player.Position())
	assert.Contains(t, m.View(), "paused")
}

func TestReplayModelFinishes(t *testing.T) {
	m := newTestReplay(t)
	for range 100 {
		m.Update(TickMsg{ID: m.tickID})
	}
	assert.True(t, m.player.Done())
	assert.Positive(t, m.player.Instance().Score())
	assert.Contains(t, m.View(), "finished")
}
