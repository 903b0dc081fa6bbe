package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func TestEmbeddedPresetsValid(t *testing.T) {
	for _, p := range Presets() {
		t.Run(string(p), func(t *testing.T) {
			file, err := embeddedRules(p)
			require.NoError(t, err)
			assert.Equal(t, p, file.Preset)
			assert.NotEmpty(t, file.Description)
			assert.NoError(t, file.Rules.Validate())
		})
	}
}

func TestGuidelinePresetMatchesDefaults(t *testing.T) {
	file, err := embeddedRules(PresetGuideline)
	require.NoError(t, err)
	assert.Equal(t, tetris.DefaultRules(), file.Rules)
}

func TestClassicPreset(t *testing.T) {
	file, err := embeddedRules(PresetClassic)
	require.NoError(t, err)
	r := file.Rules

	assert.Equal(t, tetris.RotationOriginal, r.RotationSystem)
	assert.Equal(t, tetris.LockDelayNone, r.LockDelay.Kind)
	assert.Equal(t, tetris.GravityTable, r.Gravity.Kind)
	assert.Len(t, r.Gravity.Table, 20)
	assert.Equal(t, 800*time.Millisecond, r.Gravity.Table[0])
	assert.False(t, r.HasHoldPiece)
	assert.False(t, r.HasHardDrop)
	assert.Equal(t, tetris.TopOutBlockOut, r.TopOutRule)
	assert.Equal(t, tetris.RandomizerFullRandom, r.Randomizer)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("sega")
	require.NoError(t, err)
	assert.Equal(t, PresetSega, p)

	_, err = ParsePreset("tengen")
	assert.Error(t, err)
}

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"", "easy", "normal", "hard", "fixed"} {
		d, err := ParseDifficulty(s)
		require.NoError(t, err, s)
		assert.Equal(t, DifficultyPreset(s), d)
	}
	_, err := ParseDifficulty("insane")
	assert.Error(t, err)
}

func TestLoadRulesEmbedded(t *testing.T) {
	// Run from an empty directory so ./configs is not picked up.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	rules, file, err := LoadRules("", PresetSega)
	require.NoError(t, err)
	assert.Equal(t, PresetSega, file.Preset)
	assert.Equal(t, tetris.RotationSega, rules.RotationSystem)
}

func TestLoadRulesCustomPathOverlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	data := []byte("rules:\n  grid_width: 12\n  lock_delay:\n    duration: 1s\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rules, _, err := LoadRules(path, PresetGuideline)
	require.NoError(t, err)
	assert.Equal(t, 12, rules.GridWidth)
	assert.Equal(t, time.Second, rules.LockDelay.Duration)
	// Untouched keys keep the preset value.
	assert.Equal(t, tetris.LockDelayMoveReset, rules.LockDelay.Kind)
	assert.Equal(t, 40, rules.GridHeight)
}

func TestLoadRulesConfigsDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.Mkdir("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "classic.yaml"),
		[]byte("rules:\n  next_pieces_preview_count: 3\n"), 0o644))

	rules, _, err := LoadRules("", PresetClassic)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rules.NextPiecesPreviewCount)
	assert.Equal(t, tetris.RotationOriginal, rules.RotationSystem)
}

func TestLoadRulesErrors(t *testing.T) {
	_, _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"), PresetGuideline)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rules:\n  grid_width: 2\n"), 0o644))
	_, _, err = LoadRules(bad, PresetGuideline)
	var rerr *tetris.RulesError
	assert.ErrorAs(t, err, &rerr)

	_, _, err = LoadRules("", Preset("nope"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	rules := tetris.DefaultRules()
	err := ApplyOverrides(&rules, []string{
		"has_hold_piece=false",
		"lock_delay.kind=step_reset",
		"lock_delay.duration=300ms",
		"top_out_rule=block_out,partial_lock_out",
		"spawn_row=19",
	})
	require.NoError(t, err)

	assert.False(t, rules.HasHoldPiece)
	assert.Equal(t, tetris.LockDelayStepReset, rules.LockDelay.Kind)
	assert.Equal(t, 300*time.Millisecond, rules.LockDelay.Duration)
	assert.True(t, rules.TopOutRule.Has(tetris.TopOutPartialLockOut))
	assert.EqualValues(t, 19, rules.SpawnRow)
	assert.Equal(t, tetris.RotationSRS, rules.RotationSystem)
}

func TestApplyOverridesRejects(t *testing.T) {
	tests := []struct {
		name     string
		override string
	}{
		{"no equals", "has_hold_piece"},
		{"unknown key", "no_such_field=1"},
		{"bad enum", "rotation_system=spinny"},
		{"invalid result", "grid_width=100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := tetris.DefaultRules()
			before := rules
			err := ApplyOverrides(&rules, []string{tt.override})
			assert.Error(t, err)
			assert.Equal(t, before, rules)
		})
	}
}

func TestDifficultyPreset(t *testing.T) {
	rules := tetris.DefaultRules()
	ApplyDifficultyPreset(&rules, DifficultyHard)
	assert.EqualValues(t, 10, rules.Level.Start)

	rules = tetris.DefaultRules()
	ApplyDifficultyPreset(&rules, DifficultyEasy)
	assert.EqualValues(t, 1, rules.Level.Start)

	rules = tetris.DefaultRules()
	ApplyDifficultyPreset(&rules, DifficultyFixed)
	assert.Equal(t, tetris.LevelFixed, rules.Level.Kind)
}

func TestRulesFileRoundTrip(t *testing.T) {
	file, err := embeddedRules(PresetSega)
	require.NoError(t, err)

	data, err := yaml.Marshal(file)
	require.NoError(t, err)

	var back RulesFile
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, file, back)
}
