package config

import "github.com/vovakirdan/tui-tetris/internal/tetris"

// ApplyDifficultyPreset shifts the starting level for a difficulty. The
// fixed preset keeps the start level and stops the level from advancing.
func ApplyDifficultyPreset(rules *tetris.Rules, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		rules.Level.Kind = tetris.LevelFixed
		return
	}
	rules.Level.Start += StartLevelForPreset(preset)
	if rules.Level.Max > 0 && rules.Level.Start > rules.Level.Max {
		rules.Level.Start = rules.Level.Max
	}
}
