// Package tetris adapts the rules engine to the platform's registry.Game,
// one registered mode per rules preset.
package tetris

import (
	"strings"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

// FrameRecorder receives every input frame fed to the engine, one per tick.
type FrameRecorder interface {
	Record(frame core.InputFrame)
}

// Game implements registry.Game on top of an engine instance.
type Game struct {
	id          string
	title       string
	description string
	preset      config.Preset
	fixedRules  bool
	rules       engine.Rules
	err         error

	inst     *engine.Instance
	buttons  *core.ButtonSet
	dt       time.Duration
	tick     uint64
	recorder FrameRecorder
	released []core.InputEvent // releases owed to the engine after a pause

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// Package-level settings applied on the next Reset, set from CLI flags.
var (
	rulesPath  string
	difficulty config.DifficultyPreset
	overrides  []string
)

// SetRulesPath sets a rules file that overlays the preset.
func SetRulesPath(path string) {
	rulesPath = path
}

// SetDifficulty sets the starting difficulty.
func SetDifficulty(preset config.DifficultyPreset) {
	difficulty = preset
}

// SetOverrides sets key=value rule overrides.
func SetOverrides(kv []string) {
	overrides = kv
}

// New creates a game for a rules preset. Rules are loaded on Reset.
func New(preset config.Preset) *Game {
	return &Game{
		id:          string(preset),
		title:       presetTitle(preset),
		description: config.PresetDescription(preset),
		preset:      preset,
	}
}

// NewWithRules creates a game that always plays the given rules.
func NewWithRules(id, title string, rules engine.Rules) *Game {
	return &Game{
		id:         id,
		title:      title,
		fixedRules: true,
		rules:      rules,
	}
}

func presetTitle(p config.Preset) string {
	s := string(p)
	if s == "" {
		return "Tetris"
	}
	return "Tetris (" + strings.ToUpper(s[:1]) + s[1:] + ")"
}

func init() {
	for _, p := range config.Presets() {
		registry.Register(string(p), func() registry.Game {
			return New(p)
		})
	}
}

// ID returns the mode identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Description returns the preset description.
func (g *Game) Description() string { return g.description }

// Rules returns the rules of the current game.
func (g *Game) Rules() engine.Rules { return g.rules }

// Err returns the error that kept the last Reset from starting a game.
func (g *Game) Err() error { return g.err }

// Instance returns the running engine instance, or nil if rules failed to load.
func (g *Game) Instance() *engine.Instance { return g.inst }

// TickDuration returns the logical time of one Step.
func (g *Game) TickDuration() time.Duration { return g.dt }

// SetRecorder attaches a recorder that sees every frame fed to the engine.
func (g *Game) SetRecorder(r FrameRecorder) { g.recorder = r }

// ResolveRules loads the rules of a preset with the rules file, difficulty
// and overrides set by SetRulesPath, SetDifficulty and SetOverrides.
func ResolveRules(preset config.Preset) (engine.Rules, error) {
	return RulesFor(preset, difficulty, overrides)
}

// RulesFor loads the rules of a preset with an explicit difficulty and
// overrides. Only the rules file comes from SetRulesPath.
func RulesFor(preset config.Preset, d config.DifficultyPreset, kv []string) (engine.Rules, error) {
	rules, _, err := config.LoadRules(rulesPath, preset)
	if err != nil {
		return engine.Rules{}, err
	}
	if d != "" {
		config.ApplyDifficultyPreset(&rules, d)
	}
	if err := config.ApplyOverrides(&rules, kv); err != nil {
		return engine.Rules{}, err
	}
	return rules, nil
}

// Reset starts a new game with cfg.Seed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.dt = cfg.TickDuration()
	g.tick = 0
	g.paused = false
	g.buttons = core.NewButtonSet()
	g.released = nil
	g.inst = nil
	g.err = nil

	if !g.fixedRules {
		g.rules, g.err = ResolveRules(g.preset)
	}
	if g.err == nil {
		g.inst, g.err = engine.NewInstance(g.rules, cfg.Seed)
	}

	g.checkScreenSize()
}

// Resize updates the screen size without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	if g.err != nil {
		g.tooSmall = false
		return
	}
	w, h := PanelSize(g.rules)
	g.tooSmall = g.screenW < w || g.screenH < h+1
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.inst == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Keys held at pause are released on the first engine frame after it,
	// so a recording sees the same releases as the live game.
	if in.Has(core.ActionPause) && !g.inst.HasToppedOut() {
		g.paused = !g.paused
		if g.paused {
			g.released = g.buttons.ReleaseAll().Events
		}
		return core.StepResult{State: g.State(), Changed: true}
	}

	if g.paused || g.inst.HasToppedOut() {
		return core.StepResult{State: g.State()}
	}

	if len(g.released) > 0 {
		in = core.InputFrame{Events: append(g.released, in.Events...)}
		g.released = nil
	}
	if g.recorder != nil {
		g.recorder.Record(in)
	}
	g.buttons.Advance(g.dt, in)
	changed := g.inst.Update(g.dt, g.buttons)

	return core.StepResult{State: g.State(), Changed: changed}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.inst == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	return core.GameState{
		Score:    int(g.inst.Score()),
		Lines:    int(g.inst.TotalLines()),
		Level:    int(g.inst.Level()),
		GameOver: g.inst.HasToppedOut(),
		Paused:   g.paused,
	}
}

// Snapshot returns the wire snapshot of the running game.
func (g *Game) Snapshot() engine.Snapshot {
	if g.inst == nil {
		return engine.Snapshot{}
	}
	return g.inst.ToNetwork()
}
