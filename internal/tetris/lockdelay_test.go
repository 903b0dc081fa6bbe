package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockDelayEntryReset(t *testing.T) {
	rule := LockDelayRule{Kind: LockDelayEntryReset, Duration: 100 * time.Millisecond}
	s := NewLockDelayState(rule)

	assert.False(t, s.Advance(rule, 40*time.Millisecond, false, pieceActivity{}))
	assert.Equal(t, 100*time.Millisecond, s.Remaining, "paused while airborne")

	assert.False(t, s.Advance(rule, 60*time.Millisecond, true, pieceActivity{moved: true}))
	assert.Equal(t, 40*time.Millisecond, s.Remaining, "movement does not reset")

	assert.True(t, s.Advance(rule, 50*time.Millisecond, true, pieceActivity{}))
	assert.Equal(t, time.Duration(0), s.Remaining, "saturates at zero")
}

func TestLockDelayStepReset(t *testing.T) {
	rule := LockDelayRule{Kind: LockDelayStepReset, Duration: 100 * time.Millisecond}
	s := NewLockDelayState(rule)

	s.Advance(rule, 70*time.Millisecond, true, pieceActivity{})
	assert.Equal(t, 30*time.Millisecond, s.Remaining)

	s.Advance(rule, 10*time.Millisecond, true, pieceActivity{stepped: true})
	assert.Equal(t, 100*time.Millisecond, s.Remaining)

	assert.False(t, s.Advance(rule, 99*time.Millisecond, true, pieceActivity{}))
	assert.True(t, s.Advance(rule, time.Millisecond, true, pieceActivity{}))
}

func TestLockDelayMoveResetBudget(t *testing.T) {
	rule := LockDelayRule{Kind: LockDelayMoveReset, Duration: 100 * time.Millisecond, MaxMovements: 2, MaxRotations: 1}
	s := NewLockDelayState(rule)
	assert.Equal(t, uint8(2), s.MovementsLeft)
	assert.Equal(t, uint8(1), s.RotationsLeft)

	s.Advance(rule, 50*time.Millisecond, true, pieceActivity{})
	assert.Equal(t, 50*time.Millisecond, s.Remaining)

	s.Advance(rule, 50*time.Millisecond, true, pieceActivity{moved: true})
	assert.Equal(t, 100*time.Millisecond, s.Remaining)
	assert.Equal(t, uint8(1), s.MovementsLeft)

	s.Advance(rule, 50*time.Millisecond, true, pieceActivity{rotated: true})
	assert.Equal(t, 100*time.Millisecond, s.Remaining)
	assert.Equal(t, uint8(0), s.RotationsLeft)

	s.Advance(rule, 50*time.Millisecond, true, pieceActivity{moved: true})
	assert.Equal(t, uint8(0), s.MovementsLeft)

	// Budget spent: movement no longer buys time.
	assert.False(t, s.Advance(rule, 60*time.Millisecond, true, pieceActivity{moved: true}))
	assert.Equal(t, 40*time.Millisecond, s.Remaining)
	assert.True(t, s.Advance(rule, 60*time.Millisecond, true, pieceActivity{rotated: true}))

	// Not grounded: no countdown.
	s = NewLockDelayState(rule)
	assert.False(t, s.Advance(rule, time.Second, false, pieceActivity{}))
	assert.Equal(t, 100*time.Millisecond, s.Remaining)
}

func TestLockDelayNone(t *testing.T) {
	rule := LockDelayRule{Kind: LockDelayNone}
	s := NewLockDelayState(rule)
	assert.False(t, s.Advance(rule, time.Hour, true, pieceActivity{}))
}
