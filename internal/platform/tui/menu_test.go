package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

func updateMenu(t *testing.T, m MenuModel, msg any) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MenuModel)
	require.True(t, ok)
	return mm
}

func TestMenuListsPresets(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), false)
	require.Len(t, m.items, 3)
	assert.Equal(t, "guideline", m.items[0].ModeID)
	assert.Equal(t, "classic", m.items[1].ModeID)
	assert.Equal(t, "sega", m.items[2].ModeID)
	for _, item := range m.items {
		assert.Equal(t, multiplayer.MatchModeSolo, item.Mode)
	}
}

func TestMenuVersusEntries(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), true)
	require.Len(t, m.items, 6)
	last := m.items[5]
	assert.Equal(t, "sega", last.ModeID)
	assert.Equal(t, multiplayer.MatchModeVersus, last.Mode)
	assert.True(t, strings.HasSuffix(last.Title, "Versus"))
}

func TestMenuNavigationAndSelect(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), false)

	m = updateMenu(t, m, keyMsg("up")) // stays at the top
	assert.Equal(t, 0, m.cursor)

	m = updateMenu(t, m, keyMsg("down"))
	m = updateMenu(t, m, keyMsg("j"))
	m = updateMenu(t, m, keyMsg("down")) // clamped at the bottom
	assert.Equal(t, 2, m.cursor)

	m = updateMenu(t, m, keyMsg("k"))
	m = updateMenu(t, m, keyMsg("enter"))
	require.NotNil(t, m.Selected())
	assert.Equal(t, "classic", m.Selected().ModeID)
	assert.False(t, m.IsQuitting())
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), false)
	m = updateMenu(t, m, keyMsg("tab"))
	assert.True(t, m.WantsScoreboard())

	m = NewMenuModel(nil, testConfig(), false)
	m = updateMenu(t, m, keyMsg("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestMenuPreviewSteps(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), false)
	require.NotNil(t, m.preview)
	require.NotNil(t, m.Init())

	m = updateMenu(t, m, TickMsg{ID: m.tickID})
	m = updateMenu(t, m, TickMsg{ID: m.tickID})
	assert.Equal(t, 2, m.preview.Position())

	// Ticks of another screen are ignored.
	m = updateMenu(t, m, TickMsg{ID: m.tickID + 1})
	assert.Equal(t, 2, m.preview.Position())
}

func TestMenuResizeUpdatesConfig(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), false)
	m = updateMenu(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})
	assert.Equal(t, 120, m.Config().ScreenW)
	assert.Equal(t, 50, m.Config().ScreenH)
	assert.Contains(t, m.View(), "T E T R I S")
}
