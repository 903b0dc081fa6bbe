package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func TestNewInstanceSpawns(t *testing.T) {
	d := newDriver(t, DefaultRules(), 1)
	piece, pos, ok := d.g.CurrentPiece()
	require.True(t, ok)

	// spawn_drop moves the piece one row into the visible area.
	minY, _ := MinMaxY(piece.Variant, piece.Rotation)
	assert.Equal(t, 19, pos.Y+int(minY))
	assert.Equal(t, 3, pos.X)
	assert.Len(t, d.g.PreviewPieces(), 5)
	assert.Equal(t, uint32(1), d.g.Level())
}

func TestNewInstanceRejectsInvalidRules(t *testing.T) {
	r := DefaultRules()
	r.RotationSystem = RotationDTET
	_, err := NewInstance(r, 0)
	var re *RulesError
	assert.ErrorAs(t, err, &re)
}

// With no lock delay a piece locks on the tick gravity fails.
func TestNoDelayLocksOnGravityFailure(t *testing.T) {
	r := quietRules(VariantT)
	r.Gravity = GravityRule{Kind: GravityFixed, Interval: testTick}
	d := newDriver(t, r, 0)
	restOnFloor(d.g)

	assert.True(t, d.tick())
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active)
	lp, ok := d.g.LastLockedPiece()
	require.True(t, ok)
	assert.Equal(t, VariantT, lp.Piece.Variant)
	assert.Equal(t, d.g.Timestamp(), d.g.LockPieceTimestamp())
	assert.False(t, d.g.Playfield().Block(4, 0).Empty())
}

func TestEntryResetLockDelay(t *testing.T) {
	r := quietRules(VariantO)
	r.LockDelay = LockDelayRule{Kind: LockDelayEntryReset, Duration: 5 * testTick}
	d := newDriver(t, r, 0)
	restOnFloor(d.g)

	for i := range 4 {
		d.tick()
		_, _, active := d.g.CurrentPiece()
		require.True(t, active, "tick %d", i)
		assert.True(t, d.g.IsLocking())
	}
	assert.Equal(t, testTick, d.g.LockingAnimationTimestamp(), "stamped on touch down")
	d.tick()
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active)
}

func TestMoveResetExtendsLock(t *testing.T) {
	r := quietRules(VariantO)
	r.LockDelay = LockDelayRule{Kind: LockDelayMoveReset, Duration: 4 * testTick, MaxMovements: 15, MaxRotations: 15}
	r.DASRepeatDelay = time.Second
	d := newDriver(t, r, 0)
	restOnFloor(d.g)

	d.idle(2)
	// Without the shift the piece would lock on the second tap tick.
	d.tap(core.ActionRight)
	for i := range 3 {
		_, _, active := d.g.CurrentPiece()
		require.True(t, active, "tick %d after reset", i)
		d.tick()
	}
	d.tick()
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active)
}

func TestHardDropLocksAndScores(t *testing.T) {
	r := quietRules(VariantI)
	r.LineClearDelay = 5 * testTick
	r.SpawnDelay = 2 * testTick
	d := newDriver(t, r, 0)

	// I spawns flat over columns 3..6; leave exactly those open on row 0.
	for x := range 10 {
		if x < 3 || x > 6 {
			d.g.field.SetBlock(x, 0, VariantZ)
		}
	}

	require.True(t, d.tick(pressEv(core.ActionHardDrop)))
	lp, ok := d.g.LastLockedPiece()
	require.True(t, ok)
	assert.Equal(t, uint32(19), lp.HardDropSteps)
	assert.Equal(t, ClearSingle, lp.Result.Kind())
	assert.Equal(t, []int{0}, lp.Result.Lines())
	assert.True(t, d.g.ClearPending())
	assert.Equal(t, uint32(0), d.g.Score(), "score waits for the clear delay")

	d.idle(4)
	assert.True(t, d.g.ClearPending())
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active, "no spawn while rows are pending")

	d.tick()
	assert.False(t, d.g.ClearPending())
	assert.Equal(t, uint32(100+19*2), d.g.Score())
	assert.Equal(t, uint32(1), d.g.TotalLines())
	for x := range 10 {
		assert.True(t, d.g.Playfield().Block(x, 0).Empty())
	}
	_, _, active = d.g.CurrentPiece()
	assert.True(t, active, "spawn delay already elapsed")
}

func TestNothingResultSpawnsAfterSpawnDelay(t *testing.T) {
	r := quietRules(VariantO)
	r.LineClearDelay = time.Second
	r.SpawnDelay = 3 * testTick
	d := newDriver(t, r, 0)

	d.tick(pressEv(core.ActionHardDrop))
	assert.False(t, d.g.ClearPending())
	d.idle(2)
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active)
	d.tick()
	_, _, active = d.g.CurrentPiece()
	assert.True(t, active)
}

func TestSonicDropWithoutHardDropLock(t *testing.T) {
	r := quietRules(VariantT)
	r.HasHardDropLock = false
	d := newDriver(t, r, 0)

	d.tick(pressEv(core.ActionHardDrop))
	piece, pos, active := d.g.CurrentPiece()
	require.True(t, active)
	minY, _ := MinMaxY(piece.Variant, piece.Rotation)
	assert.Equal(t, 0, pos.Y+int(minY))
}

func TestSoftDropLock(t *testing.T) {
	r := quietRules(VariantT)
	r.HasSoftDropLock = true
	d := newDriver(t, r, 0)
	restOnFloor(d.g)

	d.tick(pressEv(core.ActionSoftDrop))
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active)
}

func TestSoftDropCountsSteps(t *testing.T) {
	r := quietRules(VariantT)
	r.SoftDropInterval = 2 * testTick
	d := newDriver(t, r, 0)
	_, start, _ := d.g.CurrentPiece()

	d.tick(pressEv(core.ActionSoftDrop))
	d.idle(4)
	d.tick(releaseEv(core.ActionSoftDrop))

	_, pos, _ := d.g.CurrentPiece()
	// Fires at press and every two ticks after: t=10, 30, 50.
	assert.Equal(t, start.Y-3, pos.Y)
	assert.Equal(t, uint32(3), d.g.softDropSteps)
}

func TestDelayedAutoShift(t *testing.T) {
	r := quietRules(VariantT)
	r.DASRepeatDelay = 5 * testTick
	r.DASRepeatInterval = 2 * testTick
	d := newDriver(t, r, 0)

	d.tick(pressEv(core.ActionLeft))
	_, pos, _ := d.g.CurrentPiece()
	assert.Equal(t, 2, pos.X)
	d.idle(4)
	_, pos, _ = d.g.CurrentPiece()
	assert.Equal(t, 2, pos.X, "still inside the DAS delay")
	d.tick()
	_, pos, _ = d.g.CurrentPiece()
	assert.Equal(t, 1, pos.X)
	d.idle(10)
	_, pos, _ = d.g.CurrentPiece()
	assert.Equal(t, 0, pos.X, "stops at the wall")
	assert.Equal(t, 1, d.g.MovementAnimation().DeltaX)
}

func TestOpposingShiftsCancel(t *testing.T) {
	r := quietRules(VariantT)
	r.LockDelay = LockDelayRule{Kind: LockDelayMoveReset, Duration: 10 * testTick, MaxMovements: 15, MaxRotations: 15}
	d := newDriver(t, r, 0)
	_, start, _ := d.g.CurrentPiece()

	assert.False(t, d.tick(pressEv(core.ActionLeft), pressEv(core.ActionRight)))
	_, pos, _ := d.g.CurrentPiece()
	assert.Equal(t, start, pos)
	assert.False(t, d.g.activity.moved, "no net shift spends no move reset")
	assert.Zero(t, d.g.MovementAnimation().DeltaX)
}

func TestRotationClockwiseWinsTies(t *testing.T) {
	d := newDriver(t, quietRules(VariantT), 0)
	d.tick(pressEv(core.ActionRotateCW), pressEv(core.ActionRotateCCW))
	piece, _, _ := d.g.CurrentPiece()
	assert.Equal(t, uint8(1), piece.Rotation)

	// Edge triggered: holding does not keep rotating.
	d.idle(3)
	piece, _, _ = d.g.CurrentPiece()
	assert.Equal(t, uint8(1), piece.Rotation)
}

func TestHoldIsGatedUntilNextSpawn(t *testing.T) {
	r := quietRules(VariantT, VariantI, VariantO, VariantS)
	r.SpawnDelay = 3 * testTick
	d := newDriver(t, r, 0)

	d.tick(pressEv(core.ActionHold))
	held, ok := d.g.HoldPiece()
	require.True(t, ok)
	assert.Equal(t, VariantT, held.Variant)
	_, _, active := d.g.CurrentPiece()
	assert.False(t, active, "nothing spawns before the spawn delay")
	assert.True(t, d.g.HasUsedHold())

	// Presses between the stash and the spawn do nothing.
	d.tick(releaseEv(core.ActionHold))
	d.tap(core.ActionHold)
	held, _ = d.g.HoldPiece()
	assert.Equal(t, VariantT, held.Variant)

	cur, _, active := d.g.CurrentPiece()
	require.True(t, active, "next piece arrives after the spawn delay")
	assert.Equal(t, VariantI, cur.Variant)
	assert.False(t, d.g.HasUsedHold(), "a spawn re-arms hold")

	d.tap(core.ActionHold)
	cur, pos, _ := d.g.CurrentPiece()
	assert.Equal(t, VariantT, cur.Variant, "swap brings the held piece back")
	assert.Equal(t, SpawnPosition(cur, 10, 20), pos)
	held, _ = d.g.HoldPiece()
	assert.Equal(t, VariantI, held.Variant)
	assert.True(t, d.g.HasUsedHold())

	d.tap(core.ActionHold)
	cur, _, _ = d.g.CurrentPiece()
	assert.Equal(t, VariantT, cur.Variant, "a swap spends hold for the rest of the piece")

	d.tap(core.ActionHardDrop)
	d.idle(3)
	cur, _, _ = d.g.CurrentPiece()
	require.Equal(t, VariantO, cur.Variant)
	assert.False(t, d.g.HasUsedHold())

	d.tap(core.ActionHold)
	cur, _, _ = d.g.CurrentPiece()
	assert.Equal(t, VariantI, cur.Variant)
	held, _ = d.g.HoldPiece()
	assert.Equal(t, VariantO, held.Variant)
}

func TestBlockOutOnSpawn(t *testing.T) {
	r := quietRules(VariantT)
	r.SpawnDelay = 0
	d := newDriver(t, r, 0)
	for y := 20; y < 24; y++ {
		fillRow(d.g.field, y, 0)
	}

	// Lock the current piece low so the next spawn meets the wall of blocks.
	assert.True(t, d.tick(pressEv(core.ActionHardDrop)))
	assert.True(t, d.g.HasToppedOut())
	assert.False(t, d.tick())
	assert.False(t, d.tick(pressEv(core.ActionLeft)))
}

func TestLockOutTopsOut(t *testing.T) {
	r := quietRules(VariantO)
	r.TopOutRule = TopOutLockOut
	r.SpawnDrop = false
	d := newDriver(t, r, 0)
	// Stack up to the top of the visible area under the spawn point.
	for y := range 20 {
		fillRow(d.g.field, y, 0)
	}
	d.tick(pressEv(core.ActionHardDrop))
	assert.True(t, d.g.HasToppedOut())
}

func TestGhost(t *testing.T) {
	d := newDriver(t, quietRules(VariantL), 0)
	ghost, ok := d.g.Ghost()
	require.True(t, ok)
	piece, pos, _ := d.g.CurrentPiece()
	minY, _ := MinMaxY(piece.Variant, piece.Rotation)
	assert.Equal(t, 0, ghost.Y+int(minY))
	assert.Equal(t, pos.X, ghost.X)

	r := quietRules(VariantL)
	r.HasGhostPiece = false
	d = newDriver(t, r, 0)
	_, ok = d.g.Ghost()
	assert.False(t, ok)
}

func TestGravityFollowsLevel(t *testing.T) {
	r := quietRules(VariantT)
	r.Gravity = GravityRule{Kind: GravityFixed, Interval: 3 * testTick}
	d := newDriver(t, r, 0)
	_, start, _ := d.g.CurrentPiece()
	d.idle(9)
	_, pos, _ := d.g.CurrentPiece()
	assert.Equal(t, start.Y-3, pos.Y)
}

func TestDeterministicReplay(t *testing.T) {
	r := DefaultRules()
	script := []core.Action{core.ActionLeft, core.ActionRotateCW, core.ActionHardDrop, core.ActionRight,
		core.ActionHold, core.ActionSoftDrop, core.ActionHardDrop, core.ActionRotateCCW, core.ActionHardDrop}

	run := func() Snapshot {
		d := newDriver(t, r, 1234)
		for i := range 600 {
			if i%20 == 0 {
				d.tap(script[(i/20)%len(script)])
			} else {
				d.tick()
			}
		}
		return d.g.ToNetwork()
	}
	assert.Equal(t, run(), run())
}

func TestResetRestartsSequence(t *testing.T) {
	d := newDriver(t, DefaultRules(), 77)
	first := d.g.NextPieces()
	d.tap(core.ActionHardDrop)
	d.idle(20)
	d.g.Reset()
	assert.Equal(t, first, d.g.NextPieces())
	assert.Equal(t, uint32(0), d.g.Score())
	assert.Equal(t, time.Duration(0), d.g.Timestamp())
}
