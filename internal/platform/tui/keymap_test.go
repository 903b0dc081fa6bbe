package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func TestKeyMapAction(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		key  string
		want core.Action
	}{
		{"left", core.ActionLeft},
		{"h", core.ActionLeft},
		{"right", core.ActionRight},
		{"d", core.ActionRight},
		{"down", core.ActionSoftDrop},
		{" ", core.ActionHardDrop},
		{"up", core.ActionRotateCW},
		{"x", core.ActionRotateCW},
		{"z", core.ActionRotateCCW},
		{"c", core.ActionHold},
		{"p", core.ActionPause},
		{"esc", core.ActionPause},
		{"r", core.ActionRestart},
		{"b", core.ActionBack},
		{"q", core.ActionQuit},
		{"ctrl+c", core.ActionQuit},
		{"ctrl+s", core.ActionNone},
		{"m", core.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, km.Action(keyMsg(tt.key)))
		})
	}
}

func edges(f core.InputFrame) []core.InputEvent {
	return f.Events
}

func TestKeyboardTapReleasesNextTick(t *testing.T) {
	kb := newKeyboard()
	dt := time.Second / 60

	kb.Key(core.ActionHardDrop)
	first := kb.Flush(dt)
	assert.Equal(t, []core.InputEvent{{Action: core.ActionHardDrop, Kind: core.EdgePress}}, edges(first))

	second := kb.Flush(dt)
	assert.Equal(t, []core.InputEvent{{Action: core.ActionHardDrop, Kind: core.EdgeRelease}}, edges(second))

	assert.True(t, kb.Flush(dt).Empty())
}

func TestKeyboardHoldTimesOut(t *testing.T) {
	kb := newKeyboard()
	dt := 50 * time.Millisecond

	kb.Key(core.ActionLeft)
	assert.True(t, kb.Flush(dt).Has(core.ActionLeft)) // t=50ms
	assert.True(t, kb.Flush(dt).Empty())              // t=100ms, still held

	released := kb.Flush(dt) // t=150ms, no autorepeat arrived
	assert.Equal(t, []core.InputEvent{{Action: core.ActionLeft, Kind: core.EdgeRelease}}, edges(released))
	assert.True(t, kb.Flush(dt).Empty())
}

func TestKeyboardAutorepeatKeepsHeld(t *testing.T) {
	kb := newKeyboard()
	dt := 50 * time.Millisecond

	kb.Key(core.ActionSoftDrop)
	assert.True(t, kb.Flush(dt).Has(core.ActionSoftDrop))

	// Autorepeat refreshes the hold without a second press edge.
	for range 10 {
		kb.Key(core.ActionSoftDrop)
		assert.True(t, kb.Flush(dt).Empty())
	}

	assert.True(t, kb.Flush(dt).Empty())
	assert.Equal(t,
		[]core.InputEvent{{Action: core.ActionSoftDrop, Kind: core.EdgeRelease}},
		edges(kb.Flush(dt)))
}

func TestKeyboardReset(t *testing.T) {
	kb := newKeyboard()
	kb.Key(core.ActionLeft)
	kb.Key(core.ActionHold)
	kb.Reset()

	assert.True(t, kb.Flush(time.Second).Empty())

	// A fresh key after reset presses again.
	kb.Key(core.ActionLeft)
	assert.True(t, kb.Flush(time.Millisecond).Has(core.ActionLeft))
}
