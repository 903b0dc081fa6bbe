package replay

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Builder writes scripts by hand, tick by tick.
type Builder struct {
	script Script
}

// NewBuilder starts an empty script.
func NewBuilder(rules tetris.Rules, seed uint64, tick time.Duration) *Builder {
	return &Builder{script: Script{Seed: seed, Tick: tick, Rules: &rules}}
}

func (b *Builder) edge(a core.Action, kind core.EdgeKind) {
	b.script.Events = append(b.script.Events, Event{
		Tick:   b.script.Ticks,
		Button: a.ButtonName(),
		Kind:   kind.String(),
	})
}

// Press holds a button from the current tick.
func (b *Builder) Press(a core.Action) *Builder {
	b.edge(a, core.EdgePress)
	return b
}

// Release lets go of a button on the current tick.
func (b *Builder) Release(a core.Action) *Builder {
	b.edge(a, core.EdgeRelease)
	return b
}

// Wait advances n ticks.
func (b *Builder) Wait(n int) *Builder {
	b.script.Ticks += uint64(n)
	return b
}

// Tap presses a button for one tick, n times.
func (b *Builder) Tap(a core.Action, n int) *Builder {
	for range n {
		b.Press(a).Wait(1).Release(a).Wait(1)
	}
	return b
}

// Script returns the built script.
func (b *Builder) Script() *Script {
	s := b.script
	s.Events = append([]Event(nil), b.script.Events...)
	return &s
}

// previewSequence is the piece order of the menu animation.
var previewSequence = []tetris.Variant{
	tetris.VariantI, tetris.VariantO, tetris.VariantI,
	tetris.VariantT, tetris.VariantL, tetris.VariantJ,
	tetris.VariantS, tetris.VariantZ,
}

// PreviewRules are guideline rules with a fixed piece order.
func PreviewRules() tetris.Rules {
	rules := tetris.DefaultRules()
	rules.Randomizer = tetris.RandomizerDefinedSequence
	rules.Sequence = append([]tetris.Variant(nil), previewSequence...)
	rules.NextPiecesPreviewCount = 3
	return rules
}

// PreviewScript is the looping menu animation: two I pieces and an O
// complete the floor row, then the rest of the sequence stacks up.
func PreviewScript() *Script {
	const settle = 30
	b := NewBuilder(PreviewRules(), 0, time.Second/60)

	b.Wait(20)
	b.Tap(core.ActionLeft, 3).Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle)  // I to the left wall
	b.Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle)                          // O in the middle
	b.Tap(core.ActionRight, 3).Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle) // I to the right wall
	b.Tap(core.ActionRotateCW, 1).Tap(core.ActionLeft, 4).Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle)
	b.Tap(core.ActionRotateCCW, 1).Tap(core.ActionRight, 3).Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle)
	b.Tap(core.ActionHold, 1).Wait(settle)
	b.Tap(core.ActionLeft, 1).Wait(10).Tap(core.ActionHardDrop, 1).Wait(settle)
	b.Tap(core.ActionRight, 2).Wait(20).Tap(core.ActionHardDrop, 1).Wait(90)

	return b.Script()
}
