// Package config provides YAML-based rules loading and named rule presets
// for the tetris engine.
package config

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Preset names a built-in rules file.
type Preset string

const (
	PresetGuideline Preset = "guideline"
	PresetClassic   Preset = "classic"
	PresetSega      Preset = "sega"
)

// Presets lists the built-in presets in menu order.
func Presets() []Preset {
	return []Preset{PresetGuideline, PresetClassic, PresetSega}
}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if !slices.Contains(Presets(), p) {
		return "", fmt.Errorf("config: unknown preset %q", s)
	}
	return p, nil
}

// RulesFile is the on-disk shape of a rules YAML file.
type RulesFile struct {
	Preset      Preset       `yaml:"preset"`
	Description string       `yaml:"description"`
	Rules       tetris.Rules `yaml:"rules"`
}

// DifficultyPreset represents a named starting difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartLevelForPreset returns how many levels a difficulty skips ahead of
// the rules' own start level.
func StartLevelForPreset(preset DifficultyPreset) uint32 {
	switch preset {
	case DifficultyNormal:
		return 4
	case DifficultyHard:
		return 9
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables level progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParseDifficulty validates a difficulty name. The empty string is the
// rules' own start level.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch d := DifficultyPreset(s); d {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return d, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}
