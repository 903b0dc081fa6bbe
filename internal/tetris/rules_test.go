package tetris

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(r *Rules)
	}{
		{"narrow grid", "grid_width", func(r *Rules) { r.GridWidth = 2 }},
		{"visible above height", "visible_height", func(r *Rules) { r.VisibleHeight = 50 }},
		{"spawn row too high", "spawn_row", func(r *Rules) { r.SpawnRow = 38 }},
		{"long preview", "next_pieces_preview_count", func(r *Rules) { r.NextPiecesPreviewCount = 9 }},
		{"ars kicks", "rotation_system", func(r *Rules) { r.RotationSystem = RotationARS }},
		{"sticky clear", "line_clear_rule", func(r *Rules) { r.LineClearRule = LineClearSticky }},
		{"zero arr", "das_repeat_interval", func(r *Rules) { r.DASRepeatInterval = 0 }},
		{"zero lock delay", "lock_delay.duration", func(r *Rules) { r.LockDelay.Duration = 0 }},
		{"empty sequence", "sequence", func(r *Rules) { r.Randomizer = RandomizerDefinedSequence }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.edit(&r)
			err := r.Validate()
			require.Error(t, err)
			var re *RulesError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.field, re.Field)
		})
	}
}

func TestTopOutRuleText(t *testing.T) {
	var r TopOutRule
	require.NoError(t, r.UnmarshalText([]byte("block_out, partial_lock_out")))
	assert.True(t, r.Has(TopOutBlockOut))
	assert.True(t, r.Has(TopOutPartialLockOut))
	assert.False(t, r.Has(TopOutLockOut))
	assert.Equal(t, "block_out,partial_lock_out", r.String())

	assert.Error(t, r.UnmarshalText([]byte("block_out,sideways")))

	var empty TopOutRule
	require.NoError(t, empty.UnmarshalText(nil))
	assert.Equal(t, TopOutRule(0), empty)
}

func TestEnumText(t *testing.T) {
	var rs RotationSystem
	require.NoError(t, rs.UnmarshalText([]byte("SRS")))
	assert.Equal(t, RotationSRS, rs)
	assert.Error(t, rs.UnmarshalText([]byte("tgm")))

	var lk LockDelayKind
	require.NoError(t, lk.UnmarshalText([]byte("move_reset")))
	assert.Equal(t, LockDelayMoveReset, lk)

	var gk GravityKind
	require.NoError(t, gk.UnmarshalText([]byte("guideline")))
	assert.Equal(t, GravityGuideline, gk)
}

func TestGravityIntervals(t *testing.T) {
	guideline := GravityRule{Kind: GravityGuideline}
	d, ok := guideline.IntervalFor(1)
	require.True(t, ok)
	assert.Equal(t, time.Second, d)

	d2, _ := guideline.IntervalFor(2)
	assert.InDelta(t, float64(793*time.Millisecond), float64(d2), float64(time.Millisecond))

	d15, _ := guideline.IntervalFor(15)
	assert.Less(t, d15, d2)

	_, ok = GravityRule{Kind: GravityNone}.IntervalFor(5)
	assert.False(t, ok)

	fixed := GravityRule{Kind: GravityFixed, Interval: 250 * time.Millisecond}
	d, ok = fixed.IntervalFor(99)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	table := GravityRule{Kind: GravityTable, Table: []time.Duration{time.Second, 500 * time.Millisecond}}
	d, _ = table.IntervalFor(0)
	assert.Equal(t, time.Second, d)
	d, _ = table.IntervalFor(7)
	assert.Equal(t, 500*time.Millisecond, d, "last entry repeats")
}

func TestLevelFor(t *testing.T) {
	lines := LevelRule{Kind: LevelLines, Start: 1, LinesPerLevel: 10, Max: 15}
	assert.Equal(t, uint32(1), lines.LevelFor(0))
	assert.Equal(t, uint32(1), lines.LevelFor(9))
	assert.Equal(t, uint32(2), lines.LevelFor(10))
	assert.Equal(t, uint32(15), lines.LevelFor(1000))

	fixed := LevelRule{Kind: LevelFixed, Start: 5}
	assert.Equal(t, uint32(5), fixed.LevelFor(300))
}

func TestScoringPoints(t *testing.T) {
	s := DefaultRules().Scoring
	tests := []struct {
		name  string
		level uint32
		lp    LockedPiece
		want  uint32
	}{
		{"nothing", 1, LockedPiece{}, 0},
		{"single", 1, LockedPiece{Result: LockedPieceResult{Count: 1}}, 100},
		{"tetris level 3", 3, LockedPiece{Result: LockedPieceResult{Count: 4}}, 2400},
		{"drops only", 2, LockedPiece{SoftDropSteps: 5, HardDropSteps: 10}, 25},
		{"double with hard drop", 1, LockedPiece{HardDropSteps: 18, Result: LockedPieceResult{Count: 2}}, 336},
		{"level zero scales as one", 0, LockedPiece{Result: LockedPieceResult{Count: 3}}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Points(tt.level, tt.lp))
		})
	}
}
