package tetris

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// RotationSystem selects the rotation and wall kick policy.
type RotationSystem uint8

const (
	RotationOriginal RotationSystem = iota
	RotationNRSL
	RotationNRSR
	RotationSega
	RotationARS
	RotationSRS
	RotationDTET
)

var rotationNames = map[RotationSystem]string{
	RotationOriginal: "original",
	RotationNRSL:     "nrsl",
	RotationNRSR:     "nrsr",
	RotationSega:     "sega",
	RotationARS:      "ars",
	RotationSRS:      "srs",
	RotationDTET:     "dtet",
}

func (r RotationSystem) String() string {
	if s, ok := rotationNames[r]; ok {
		return s
	}
	return fmt.Sprintf("RotationSystem(%d)", uint8(r))
}

// HasKicks reports whether the system defines wall kicks.
func (r RotationSystem) HasKicks() bool {
	return r == RotationSRS || r == RotationARS || r == RotationDTET
}

// Implemented reports whether rotation under this system is supported.
func (r RotationSystem) Implemented() bool {
	return r != RotationARS && r != RotationDTET
}

func (r RotationSystem) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RotationSystem) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, rotationNames, r, "rotation system")
}

// LineClearRule selects how rows above a cleared line settle.
type LineClearRule uint8

const (
	LineClearNaive LineClearRule = iota
	LineClearSticky
	LineClearCascade
)

var lineClearNames = map[LineClearRule]string{
	LineClearNaive:   "naive",
	LineClearSticky:  "sticky",
	LineClearCascade: "cascade",
}

func (l LineClearRule) String() string {
	if s, ok := lineClearNames[l]; ok {
		return s
	}
	return fmt.Sprintf("LineClearRule(%d)", uint8(l))
}

func (l LineClearRule) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LineClearRule) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, lineClearNames, l, "line clear rule")
}

// TopOutRule is a set of game-over conditions.
type TopOutRule uint8

const (
	TopOutBlockOut TopOutRule = 1 << iota
	TopOutLockOut
	TopOutPartialLockOut
	TopOutGarbageOut
)

var topOutNames = []struct {
	flag TopOutRule
	name string
}{
	{TopOutBlockOut, "block_out"},
	{TopOutLockOut, "lock_out"},
	{TopOutPartialLockOut, "partial_lock_out"},
	{TopOutGarbageOut, "garbage_out"},
}

// Has reports whether every bit of flag is set.
func (t TopOutRule) Has(flag TopOutRule) bool {
	return t&flag == flag
}

func (t TopOutRule) String() string {
	var parts []string
	for _, n := range topOutNames {
		if t.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

func (t TopOutRule) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses a comma or pipe separated list of flag names.
func (t *TopOutRule) UnmarshalText(text []byte) error {
	var out TopOutRule
	fields := strings.FieldsFunc(string(text), func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	for _, f := range fields {
		found := false
		for _, n := range topOutNames {
			if strings.EqualFold(f, n.name) {
				out |= n.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("tetris: unknown top out flag %q", f)
		}
	}
	*t = out
	return nil
}

// LockDelayKind selects the lock delay algorithm.
type LockDelayKind uint8

const (
	LockDelayNone LockDelayKind = iota
	LockDelayEntryReset
	LockDelayStepReset
	LockDelayMoveReset
)

var lockDelayNames = map[LockDelayKind]string{
	LockDelayNone:       "none",
	LockDelayEntryReset: "entry_reset",
	LockDelayStepReset:  "step_reset",
	LockDelayMoveReset:  "move_reset",
}

func (k LockDelayKind) String() string {
	if s, ok := lockDelayNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LockDelayKind(%d)", uint8(k))
}

func (k LockDelayKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LockDelayKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, lockDelayNames, k, "lock delay")
}

// LockDelayRule configures the grace period before a grounded piece locks.
type LockDelayRule struct {
	Kind         LockDelayKind `yaml:"kind"`
	Duration     time.Duration `yaml:"duration"`
	MaxRotations uint8         `yaml:"max_rotations"` // move_reset only
	MaxMovements uint8         `yaml:"max_movements"` // move_reset only
}

// GravityKind selects how the fall interval is derived.
type GravityKind uint8

const (
	GravityNone GravityKind = iota
	GravityFixed
	GravityGuideline
	GravityTable
)

var gravityNames = map[GravityKind]string{
	GravityNone:      "none",
	GravityFixed:     "fixed",
	GravityGuideline: "guideline",
	GravityTable:     "table",
}

func (k GravityKind) String() string {
	if s, ok := gravityNames[k]; ok {
		return s
	}
	return fmt.Sprintf("GravityKind(%d)", uint8(k))
}

func (k GravityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *GravityKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, gravityNames, k, "gravity")
}

// GravityRule maps a level to the interval between automatic drops.
type GravityRule struct {
	Kind     GravityKind     `yaml:"kind"`
	Interval time.Duration   `yaml:"interval,omitempty"` // fixed
	Table    []time.Duration `yaml:"table,omitempty"`    // indexed by level, last entry repeats
}

// IntervalFor returns the drop interval for a level. ok is false when pieces
// never fall on their own.
func (g GravityRule) IntervalFor(level uint32) (time.Duration, bool) {
	switch g.Kind {
	case GravityNone:
		return 0, false
	case GravityFixed:
		return g.Interval, g.Interval > 0
	case GravityGuideline:
		l := float64(max(level, 1))
		secs := math.Pow(0.8-(l-1)*0.007, l-1)
		return max(time.Duration(secs*float64(time.Second)), time.Millisecond), true
	case GravityTable:
		if len(g.Table) == 0 {
			return 0, false
		}
		i := min(int(level), len(g.Table)-1)
		return g.Table[i], g.Table[i] > 0
	default:
		return 0, false
	}
}

// LevelKind selects how the level advances.
type LevelKind uint8

const (
	LevelFixed LevelKind = iota
	LevelLines
)

var levelNames = map[LevelKind]string{
	LevelFixed: "fixed",
	LevelLines: "lines",
}

func (k LevelKind) String() string {
	if s, ok := levelNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LevelKind(%d)", uint8(k))
}

func (k LevelKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LevelKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, levelNames, k, "level curve")
}

// LevelRule is the level curve.
type LevelRule struct {
	Kind          LevelKind `yaml:"kind"`
	Start         uint32    `yaml:"start"`
	LinesPerLevel uint32    `yaml:"lines_per_level"`
	Max           uint32    `yaml:"max"` // 0 means unbounded
}

// LevelFor returns the level after clearing totalLines rows.
func (l LevelRule) LevelFor(totalLines uint32) uint32 {
	level := l.Start
	if l.Kind == LevelLines && l.LinesPerLevel > 0 {
		level += totalLines / l.LinesPerLevel
	}
	if l.Max > 0 && level > l.Max {
		level = l.Max
	}
	return level
}

// ScoringRule holds base points per clear and per drop step.
type ScoringRule struct {
	Single          uint32 `yaml:"single"`
	Double          uint32 `yaml:"double"`
	Triple          uint32 `yaml:"triple"`
	Tetris          uint32 `yaml:"tetris"`
	SoftDropPerStep uint32 `yaml:"soft_drop_per_step"`
	HardDropPerStep uint32 `yaml:"hard_drop_per_step"`
}

// AnimationRule toggles a renderer animation and its length.
type AnimationRule struct {
	Enabled  bool          `yaml:"enabled"`
	Duration time.Duration `yaml:"duration"`
}

// Rules is the full per-game configuration. It is copied into each Instance.
type Rules struct {
	GridWidth     int `yaml:"grid_width"`
	GridHeight    int `yaml:"grid_height"`
	VisibleHeight int `yaml:"visible_height"`

	HasHardDrop              bool  `yaml:"has_hard_drop"`
	HasHardDropLock          bool  `yaml:"has_hard_drop_lock"`
	HasSoftDrop              bool  `yaml:"has_soft_drop"`
	HasSoftDropLock          bool  `yaml:"has_soft_drop_lock"`
	HasHoldPiece             bool  `yaml:"has_hold_piece"`
	HasGhostPiece            bool  `yaml:"has_ghost_piece"`
	HoldPieceResetRotation   bool  `yaml:"hold_piece_reset_rotation"`
	SpawnDrop                bool  `yaml:"spawn_drop"`
	HasInitialRotationSystem bool  `yaml:"has_initial_rotation_system"`
	HasInitialHoldSystem     bool  `yaml:"has_initial_hold_system"`
	SpawnRow                 uint8 `yaml:"spawn_row"`
	NextPiecesPreviewCount   uint8 `yaml:"next_pieces_preview_count"`

	RotationSystem RotationSystem `yaml:"rotation_system"`
	LineClearRule  LineClearRule  `yaml:"line_clear_rule"`
	TopOutRule     TopOutRule     `yaml:"top_out_rule"`

	DASRepeatDelay    time.Duration `yaml:"das_repeat_delay"`
	DASRepeatInterval time.Duration `yaml:"das_repeat_interval"`
	SoftDropInterval  time.Duration `yaml:"soft_drop_interval"`
	LineClearDelay    time.Duration `yaml:"line_clear_delay"`
	SpawnDelay        time.Duration `yaml:"spawn_delay"`

	LockDelay LockDelayRule `yaml:"lock_delay"`
	Gravity   GravityRule   `yaml:"gravity"`
	Level     LevelRule     `yaml:"level"`
	Scoring   ScoringRule   `yaml:"scoring"`

	MovementAnimation  AnimationRule `yaml:"movement_animation"`
	LockingAnimation   AnimationRule `yaml:"locking_animation"`
	LineClearAnimation AnimationRule `yaml:"line_clear_animation"`

	Randomizer RandomizerKind `yaml:"randomizer"`
	// Sequence feeds RandomizerDefinedSequence.
	Sequence []Variant `yaml:"sequence,omitempty"`
}

// DefaultRules returns guideline-style rules on a 10x40 field with 20 visible rows.
func DefaultRules() Rules {
	return Rules{
		GridWidth:                10,
		GridHeight:               40,
		VisibleHeight:            20,
		HasHardDrop:              true,
		HasHardDropLock:          true,
		HasSoftDrop:              true,
		HasHoldPiece:             true,
		HasGhostPiece:            true,
		HoldPieceResetRotation:   true,
		SpawnDrop:                true,
		HasInitialRotationSystem: true,
		HasInitialHoldSystem:     true,
		SpawnRow:                 20,
		NextPiecesPreviewCount:   5,
		RotationSystem:           RotationSRS,
		LineClearRule:            LineClearNaive,
		TopOutRule:               TopOutBlockOut | TopOutLockOut,
		DASRepeatDelay:           167 * time.Millisecond,
		DASRepeatInterval:        33 * time.Millisecond,
		SoftDropInterval:         50 * time.Millisecond,
		LineClearDelay:           300 * time.Millisecond,
		SpawnDelay:               100 * time.Millisecond,
		LockDelay: LockDelayRule{
			Kind:         LockDelayMoveReset,
			Duration:     500 * time.Millisecond,
			MaxRotations: 15,
			MaxMovements: 15,
		},
		Gravity: GravityRule{Kind: GravityGuideline},
		Level:   LevelRule{Kind: LevelLines, Start: 1, LinesPerLevel: 10, Max: 20},
		Scoring: ScoringRule{
			Single:          100,
			Double:          300,
			Triple:          500,
			Tetris:          800,
			SoftDropPerStep: 1,
			HardDropPerStep: 2,
		},
		MovementAnimation:  AnimationRule{Enabled: true, Duration: 50 * time.Millisecond},
		LockingAnimation:   AnimationRule{Enabled: true, Duration: 150 * time.Millisecond},
		LineClearAnimation: AnimationRule{Enabled: true, Duration: 300 * time.Millisecond},
		Randomizer:         Randomizer7Bag,
	}
}

// MaxPreviewCount bounds NextPiecesPreviewCount.
const MaxPreviewCount = 8

// RulesError reports an invalid rules field.
type RulesError struct {
	Field  string
	Reason string
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("tetris: invalid rules: %s: %s", e.Field, e.Reason)
}

// Validate checks that the rules describe a playable, supported game.
// The returned error joins one *RulesError per problem.
func (r Rules) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &RulesError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if r.GridWidth < 4 || r.GridWidth > 64 {
		bad("grid_width", "must be in [4, 64], got %d", r.GridWidth)
	}
	if r.GridHeight < 4 || r.GridHeight > 255 {
		bad("grid_height", "must be in [4, 255], got %d", r.GridHeight)
	}
	if r.VisibleHeight <= 0 || r.VisibleHeight > r.GridHeight {
		bad("visible_height", "must be in [1, grid_height], got %d", r.VisibleHeight)
	}
	if int(r.SpawnRow)+4 > r.GridHeight {
		bad("spawn_row", "piece spawned at row %d does not fit in %d rows", r.SpawnRow, r.GridHeight)
	}
	if r.NextPiecesPreviewCount > MaxPreviewCount {
		bad("next_pieces_preview_count", "must be at most %d, got %d", MaxPreviewCount, r.NextPiecesPreviewCount)
	}
	if !r.RotationSystem.Implemented() {
		bad("rotation_system", "%s wall kicks are not implemented", r.RotationSystem)
	}
	if r.LineClearRule != LineClearNaive {
		bad("line_clear_rule", "%s is not implemented", r.LineClearRule)
	}
	if r.DASRepeatInterval <= 0 {
		bad("das_repeat_interval", "must be positive")
	}
	if r.DASRepeatDelay < 0 {
		bad("das_repeat_delay", "must not be negative")
	}
	if r.HasSoftDrop && r.SoftDropInterval <= 0 {
		bad("soft_drop_interval", "must be positive")
	}
	if r.LineClearDelay < 0 || r.SpawnDelay < 0 {
		bad("spawn_delay", "delays must not be negative")
	}
	if r.LockDelay.Kind != LockDelayNone && r.LockDelay.Duration <= 0 {
		bad("lock_delay.duration", "must be positive for %s", r.LockDelay.Kind)
	}
	if r.Gravity.Kind == GravityTable && len(r.Gravity.Table) == 0 {
		bad("gravity.table", "must not be empty")
	}
	if r.Randomizer == RandomizerDefinedSequence && len(r.Sequence) == 0 {
		bad("sequence", "defined_sequence randomizer needs a sequence")
	}
	return errors.Join(errs...)
}

func unmarshalEnum[T comparable](text []byte, names map[T]string, out *T, what string) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for v, name := range names {
		if name == s {
			*out = v
			return nil
		}
	}
	return fmt.Errorf("tetris: unknown %s %q", what, text)
}
