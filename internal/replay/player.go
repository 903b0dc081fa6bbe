package replay

import (
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Player steps a script one tick at a time.
type Player struct {
	script  *Script
	frames  []core.InputFrame
	inst    *tetris.Instance
	buttons *core.ButtonSet
	pos     int
	loop    bool
}

// NewPlayer prepares a script for playback.
func NewPlayer(s *Script) (*Player, error) {
	if s.Rules == nil {
		return nil, ErrNoRules
	}
	frames, err := s.Frames()
	if err != nil {
		return nil, err
	}
	inst, err := tetris.NewInstance(*s.Rules, s.Seed)
	if err != nil {
		return nil, err
	}
	return &Player{script: s, frames: frames, inst: inst, buttons: core.NewButtonSet()}, nil
}

// NewLoopingPlayer returns a player that resets its instance and starts over
// when the script ends.
func NewLoopingPlayer(s *Script) (*Player, error) {
	p, err := NewPlayer(s)
	if err != nil {
		return nil, err
	}
	p.loop = true
	return p, nil
}

func (p *Player) rewind() {
	p.inst.Reset()
	p.buttons = core.NewButtonSet()
	p.pos = 0
}

// Step feeds the next frame. It reports whether the instance changed.
func (p *Player) Step() bool {
	if p.pos >= len(p.frames) {
		if !p.loop {
			return false
		}
		p.rewind()
		return true
	}
	dt := p.script.tick()
	p.buttons.Advance(dt, p.frames[p.pos])
	p.pos++
	return p.inst.Update(dt, p.buttons)
}

// Done reports whether a non-looping player reached the end.
func (p *Player) Done() bool {
	return !p.loop && p.pos >= len(p.frames)
}

// Instance returns the instance being driven.
func (p *Player) Instance() *tetris.Instance {
	return p.inst
}

// Position returns the number of frames played since the last restart.
func (p *Player) Position() int {
	return p.pos
}
