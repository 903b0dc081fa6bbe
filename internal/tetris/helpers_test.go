package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

const testTick = 10 * time.Millisecond

// driver feeds scripted button events into an instance.
type driver struct {
	g       *Instance
	buttons *core.ButtonSet
	dt      time.Duration
}

func newDriver(t *testing.T, rules Rules, seed uint64) *driver {
	t.Helper()
	g, err := NewInstance(rules, seed)
	require.NoError(t, err)
	return &driver{g: g, buttons: core.NewButtonSet(), dt: testTick}
}

func (d *driver) tick(events ...core.InputEvent) bool {
	d.buttons.Advance(d.dt, core.InputFrame{Events: events})
	return d.g.Update(d.dt, d.buttons)
}

func (d *driver) idle(n int) {
	for range n {
		d.tick()
	}
}

// tap presses a button for one tick and releases it on the next.
func (d *driver) tap(a core.Action) bool {
	updated := d.tick(pressEv(a))
	d.tick(releaseEv(a))
	return updated
}

func pressEv(a core.Action) core.InputEvent {
	return core.InputEvent{Action: a, Kind: core.EdgePress}
}

func releaseEv(a core.Action) core.InputEvent {
	return core.InputEvent{Action: a, Kind: core.EdgeRelease}
}

// quietRules has no gravity and no lock delay so tests drive every step.
func quietRules(seq ...Variant) Rules {
	r := DefaultRules()
	r.Gravity = GravityRule{Kind: GravityNone}
	r.LockDelay = LockDelayRule{Kind: LockDelayNone}
	if len(seq) > 0 {
		r.Randomizer = RandomizerDefinedSequence
		r.Sequence = seq
	}
	return r
}

// restOnFloor moves the active piece so its lowest block is on row 0.
func restOnFloor(g *Instance) {
	minY, _ := MinMaxY(g.current.Variant, g.current.Rotation)
	g.position.Y = -int(minY)
}

// fillRow fills row y except the listed columns.
func fillRow(f *Playfield, y int, holes ...int) {
	for x := range f.Width() {
		skip := false
		for _, h := range holes {
			if h == x {
				skip = true
			}
		}
		if !skip {
			f.SetBlock(x, y, VariantZ)
		}
	}
}
