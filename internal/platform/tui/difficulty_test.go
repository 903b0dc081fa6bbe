package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/config"
)

func updateDifficulty(t *testing.T, m DifficultyModel, keys ...string) DifficultyModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		dm, ok := next.(DifficultyModel)
		require.True(t, ok)
		m = dm
	}
	return m
}

func TestDifficultySelectionOverrides(t *testing.T) {
	assert.Nil(t, DifficultySelection{Difficulty: config.DifficultyHard}.Overrides())
	assert.Equal(t, []string{"level.start=7"}, DifficultySelection{Level: 7}.Overrides())
}

func TestDifficultyPickPreset(t *testing.T) {
	m := NewDifficultyModel("Tetris", 80, 24)
	assert.Nil(t, m.Selected())

	m = updateDifficulty(t, m, "down", "down", "enter")
	require.NotNil(t, m.Selected())
	assert.Equal(t, config.DifficultyHard, m.Selected().Difficulty)
	assert.Zero(t, m.Selected().Level)
}

func TestDifficultyPickLevel(t *testing.T) {
	m := NewDifficultyModel("Tetris", 80, 24)

	// Last option opens the level picker.
	m = updateDifficulty(t, m, "down", "down", "down", "down", "enter")
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "Start at level")

	m = updateDifficulty(t, m, "down", "down", "enter")
	require.NotNil(t, m.Selected())
	assert.Equal(t, 3, m.Selected().Level)
	assert.Equal(t, []string{"level.start=3"}, m.Selected().Overrides())
}

func TestDifficultyBackFromLevelPicker(t *testing.T) {
	m := NewDifficultyModel("Tetris", 80, 24)
	m = updateDifficulty(t, m, "down", "down", "down", "down", "enter", "esc")
	assert.Contains(t, m.View(), "Select difficulty")
	assert.False(t, m.WantsBack())

	m = updateDifficulty(t, m, "esc")
	assert.True(t, m.WantsBack())
	assert.Nil(t, m.Selected())
}
