// Package replay records and re-runs input scripts against the engine.
// A script is the seed, the rules and every button edge by tick, which is
// all the engine needs to reproduce a game exactly.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// ErrNoRules is returned when a script carries no rules to run with.
var ErrNoRules = errors.New("replay: script has no rules")

// Event is one button edge.
type Event struct {
	Tick   uint64 `yaml:"tick"`
	Button string `yaml:"button"`
	Kind   string `yaml:"kind"` // press or release
}

// Result is the outcome recorded with a script, checked by Verify.
type Result struct {
	Score     uint32 `yaml:"score"`
	Lines     uint32 `yaml:"lines"`
	Level     uint32 `yaml:"level"`
	ToppedOut bool   `yaml:"topped_out"`
}

// Script is a complete replay.
type Script struct {
	Preset string        `yaml:"preset,omitempty"`
	Seed   uint64        `yaml:"seed"`
	Tick   time.Duration `yaml:"tick"`
	Ticks  uint64        `yaml:"ticks"`
	Rules  *tetris.Rules `yaml:"rules,omitempty"`
	Events []Event       `yaml:"events"`
	Result *Result       `yaml:"result,omitempty"`
}

func parseKind(s string) (core.EdgeKind, error) {
	switch s {
	case "press":
		return core.EdgePress, nil
	case "release":
		return core.EdgeRelease, nil
	default:
		return 0, fmt.Errorf("replay: unknown event kind %q", s)
	}
}

// Frames expands the events into one input frame per tick.
func (s *Script) Frames() ([]core.InputFrame, error) {
	frames := make([]core.InputFrame, s.Ticks)
	for i, e := range s.Events {
		if e.Tick >= s.Ticks {
			return nil, fmt.Errorf("replay: event %d at tick %d past end %d", i, e.Tick, s.Ticks)
		}
		a, ok := core.ActionForButton(e.Button)
		if !ok {
			return nil, fmt.Errorf("replay: event %d: unknown button %q", i, e.Button)
		}
		kind, err := parseKind(e.Kind)
		if err != nil {
			return nil, err
		}
		if kind == core.EdgePress {
			frames[e.Tick].Press(a)
		} else {
			frames[e.Tick].Release(a)
		}
	}
	return frames, nil
}

func (s *Script) tick() time.Duration {
	if s.Tick <= 0 {
		return time.Second / 60
	}
	return s.Tick
}

// Run plays the whole script on a fresh instance and returns it.
func Run(s *Script) (*tetris.Instance, error) {
	p, err := NewPlayer(s)
	if err != nil {
		return nil, err
	}
	for !p.Done() {
		p.Step()
	}
	return p.Instance(), nil
}

// ResultOf captures the outcome of an instance.
func ResultOf(inst *tetris.Instance) Result {
	return Result{
		Score:     inst.Score(),
		Lines:     inst.TotalLines(),
		Level:     inst.Level(),
		ToppedOut: inst.HasToppedOut(),
	}
}

// Verify runs the script and compares the outcome with the recorded result.
func Verify(s *Script) (Result, error) {
	inst, err := Run(s)
	if err != nil {
		return Result{}, err
	}
	got := ResultOf(inst)
	if s.Result != nil && got != *s.Result {
		return got, fmt.Errorf("replay: result mismatch: got %+v, recorded %+v", got, *s.Result)
	}
	return got, nil
}
