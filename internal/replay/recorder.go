package replay

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Recorder collects the frames of a live game into a Script.
type Recorder struct {
	script Script
}

// NewRecorder starts a recording for a game created with rules and seed.
func NewRecorder(preset string, rules tetris.Rules, seed uint64, tick time.Duration) *Recorder {
	return &Recorder{script: Script{
		Preset: preset,
		Seed:   seed,
		Tick:   tick,
		Rules:  &rules,
	}}
}

// Record appends one tick. Actions that are not engine buttons are dropped.
func (r *Recorder) Record(frame core.InputFrame) {
	for _, e := range frame.Events {
		name := e.Action.ButtonName()
		if name == "" {
			continue
		}
		r.script.Events = append(r.script.Events, Event{
			Tick:   r.script.Ticks,
			Button: name,
			Kind:   e.Kind.String(),
		})
	}
	r.script.Ticks++
}

// Ticks returns the number of recorded ticks.
func (r *Recorder) Ticks() uint64 {
	return r.script.Ticks
}

// Script returns the recording with the outcome of inst attached.
func (r *Recorder) Script(inst *tetris.Instance) *Script {
	s := r.script
	s.Events = append([]Event(nil), r.script.Events...)
	if inst != nil {
		res := ResultOf(inst)
		s.Result = &res
	}
	return &s
}
