package tetris

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// NextPiecesCount is the fixed length of the next-piece queue. Rules choose
// how many of them are shown.
const NextPiecesCount = MaxPreviewCount

// InputMapping supplies named buttons to Update.
type InputMapping interface {
	Button(name string) core.Button
}

// Instance is one game: a playfield, a randomizer, the active, held and
// queued pieces, and every timer of the per-tick state machine.
// It is not safe for concurrent use.
type Instance struct {
	rules Rules
	field *Playfield
	rng   Randomizer

	timestamp time.Duration

	current    Piece
	position   Position
	hasCurrent bool

	hold    Piece
	hasHold bool
	next    [NextPiecesCount]Variant

	score      uint32
	totalLines uint32
	level      uint32

	lockDelay      LockDelayState
	isLocking      bool
	activity       pieceActivity
	lastAction     PieceAction
	softDropSteps  uint32
	hardDropSteps  uint32
	hasUsedHold    bool
	hasToppedOut   bool
	lastLocked     *LockedPiece
	pendingClear   bool
	lockPieceStamp time.Duration

	movementStampX   time.Duration
	movementStampY   time.Duration
	movementDeltaX   int
	movementDeltaY   int
	lockingAnimStamp time.Duration
}

// NewInstance starts a game with a piece already in play. Rules are
// validated and copied.
func NewInstance(rules Rules, seed uint64) (*Instance, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	rng, err := NewRandomizer(rules.Randomizer, seed, rules.Sequence)
	if err != nil {
		return nil, err
	}
	g := newInstance(rules, rng)
	for i := range g.next {
		g.next[i] = rng.Next()
	}
	g.spawn(nil)
	return g, nil
}

func newInstance(rules Rules, rng Randomizer) *Instance {
	rules.Sequence = append([]Variant(nil), rules.Sequence...)
	return &Instance{
		rules: rules,
		field: NewPlayfield(rules.GridWidth, rules.GridHeight, rules.VisibleHeight),
		rng:   rng,
		level: rules.Level.LevelFor(0),
	}
}

// Update advances the game by dt, reading buttons from in, and reports
// whether anything visible changed. It is a no-op once the game topped out.
func (g *Instance) Update(dt time.Duration, in InputMapping) bool {
	if g.hasToppedOut {
		return false
	}
	g.timestamp += dt
	updated := false

	if g.hasCurrent && g.updateLockDelay(dt) {
		updated = true
	}
	if g.hasToppedOut {
		return true
	}

	g.activity = pieceActivity{}

	if g.hasCurrent {
		if g.handleHorizontal(in) {
			updated = true
		}
		if g.handleSoftDrop(in) {
			updated = true
		}
		if g.handleRotation(in) {
			updated = true
		}
		if g.handleHardDrop(in) {
			updated = true
		}
		if g.handleHold(in) {
			updated = true
		}
		if g.hasToppedOut {
			return true
		}
	}

	if g.hasCurrent && g.applyGravity() {
		updated = true
	}
	if g.hasToppedOut {
		return true
	}

	if g.applyPendingClear() {
		updated = true
	}

	if !g.hasCurrent && !g.pendingClear && g.timestamp >= g.lockPieceStamp+g.rules.SpawnDelay {
		g.spawn(in)
		updated = true
	}
	return updated
}

// updateLockDelay evaluates the locking predicate and the countdown using
// what the piece did during the previous tick.
func (g *Instance) updateLockDelay(dt time.Duration) bool {
	updated := false
	locking := IsLocking(g.current, g.position, g.field)
	if locking && !g.isLocking {
		g.lockingAnimStamp = g.timestamp
		updated = true
	}
	g.isLocking = locking

	if g.lockDelay.Advance(g.rules.LockDelay, dt, locking, g.activity) {
		g.lockCurrent()
		updated = true
	}
	return updated
}

// handleHorizontal moves by the net shift of both directions, so left and
// right firing on the same tick cancel out.
func (g *Instance) handleHorizontal(in InputMapping) bool {
	dx := 0
	if in.Button(core.ButtonLeft).PressedRepeatWithDelay(g.rules.DASRepeatDelay, g.rules.DASRepeatInterval) {
		dx--
	}
	if in.Button(core.ButtonRight).PressedRepeatWithDelay(g.rules.DASRepeatDelay, g.rules.DASRepeatInterval) {
		dx++
	}
	if dx == 0 || !TryMove(g.current, &g.position, g.field, dx, 0) {
		return false
	}
	g.movementStampX = g.timestamp
	g.movementDeltaX = -dx
	g.activity.moved = true
	g.lastAction = ActionMovement
	return true
}

func (g *Instance) handleSoftDrop(in InputMapping) bool {
	if !g.rules.HasSoftDrop || !in.Button(core.ButtonSoftDrop).PressedRepeat(g.rules.SoftDropInterval) {
		return false
	}
	if TryApplyGravity(g.current, &g.position, g.field) {
		g.movementStampY = g.timestamp
		g.movementDeltaY = 1
		g.softDropSteps++
		g.activity.moved = true
		g.activity.stepped = true
		g.lastAction = ActionMovement
		return true
	}
	if g.rules.HasSoftDropLock {
		g.lockCurrent()
		return true
	}
	return false
}

func (g *Instance) handleRotation(in InputMapping) bool {
	if !g.hasCurrent {
		return false
	}
	cw := in.Button(core.ButtonRotateCW).Pressed()
	ccw := in.Button(core.ButtonRotateCCW).Pressed()
	if !cw && !ccw {
		return false
	}
	if TryRotate(&g.current, &g.position, cw, g.field, g.rules.RotationSystem) {
		g.activity.rotated = true
		g.lastAction = ActionRotation
		return true
	}
	return false
}

func (g *Instance) handleHardDrop(in InputMapping) bool {
	if !g.hasCurrent || !g.rules.HasHardDrop || !in.Button(core.ButtonHardDrop).Pressed() {
		return false
	}
	steps := FullDropPiece(g.current, &g.position, g.field)
	if steps > 0 {
		g.hardDropSteps += uint32(steps)
		g.movementStampY = g.timestamp
		g.movementDeltaY = steps
		g.activity.moved = true
		g.activity.stepped = true
		g.lastAction = ActionMovement
	}
	if g.rules.HasHardDropLock {
		g.lockCurrent()
		return true
	}
	return steps > 0
}

func (g *Instance) handleHold(in InputMapping) bool {
	if !g.hasCurrent || !g.rules.HasHoldPiece || g.hasUsedHold || !in.Button(core.ButtonHold).Pressed() {
		return false
	}
	g.holdCurrent()
	return true
}

// holdCurrent swaps the active piece with the held one. With an empty hold
// the active piece is stashed and the next one arrives after the spawn delay.
func (g *Instance) holdCurrent() {
	if !g.hasCurrent {
		panic("tetris: hold with no active piece")
	}
	stashed := g.current
	if g.rules.HoldPieceResetRotation {
		stashed.Rotation = 0
	}
	g.hasUsedHold = true

	if !g.hasHold {
		g.hold, g.hasHold = stashed, true
		g.hasCurrent = false
		g.isLocking = false
		g.lockPieceStamp = g.timestamp
		return
	}

	g.current, g.hold = g.hold, stashed
	g.position = SpawnPosition(g.current, g.field.Width(), int(g.rules.SpawnRow))
	g.resetPieceState()
	if BlockedOut(g.current, g.position, g.field, g.rules.TopOutRule) {
		g.hasToppedOut = true
	}
}

func (g *Instance) applyGravity() bool {
	interval, ok := g.rules.Gravity.IntervalFor(g.level)
	if !ok || g.timestamp < g.movementStampY+interval {
		return false
	}
	if TryApplyGravity(g.current, &g.position, g.field) {
		g.movementStampY = g.timestamp
		g.movementDeltaY = 1
		g.activity.stepped = true
		return true
	}
	if g.rules.LockDelay.Kind == LockDelayNone {
		g.lockCurrent()
		return true
	}
	return false
}

// lockCurrent writes the active piece into the playfield and records the
// LockedPiece. Scoring and clearing happen later in applyPendingClear.
func (g *Instance) lockCurrent() {
	if !g.hasCurrent {
		panic("tetris: lock with no active piece")
	}
	LockPiece(g.current, g.position, g.field)
	count, rows := g.field.LinesToClear()
	g.lastLocked = &LockedPiece{
		Piece:         g.current,
		Position:      g.position,
		SoftDropSteps: g.softDropSteps,
		HardDropSteps: g.hardDropSteps,
		LastAction:    g.lastAction,
		Result:        LockedPieceResult{Count: count, Rows: rows},
	}
	g.lockPieceStamp = g.timestamp
	g.hasCurrent = false
	g.isLocking = false
	g.pendingClear = true
	if LockedOut(g.current, g.position, g.rules.TopOutRule, g.field.VisibleHeight()) {
		g.hasToppedOut = true
	}
}

// applyPendingClear scores the last lock and clears its rows once the line
// clear delay has passed. Locks that cleared nothing apply at once.
func (g *Instance) applyPendingClear() bool {
	if !g.pendingClear || g.lastLocked == nil {
		return false
	}
	lp := g.lastLocked
	if lp.Result.Count > 0 && g.timestamp < g.lockPieceStamp+g.rules.LineClearDelay {
		return false
	}
	g.score += g.rules.Scoring.Points(g.level, *lp)
	if lp.Result.Count > 0 {
		g.field.ClearLines(g.rules.LineClearRule)
		g.totalLines += uint32(lp.Result.Count)
		g.level = g.rules.Level.LevelFor(g.totalLines)
	}
	g.pendingClear = false
	return true
}

// spawn promotes the head of the queue into play and re-arms hold. A hold
// taken through IHS spends it for the new piece.
func (g *Instance) spawn(in InputMapping) {
	v := g.next[0]
	copy(g.next[:], g.next[1:])
	g.next[len(g.next)-1] = g.rng.Next()

	g.current = NewPiece(v)
	g.position = SpawnPosition(g.current, g.field.Width(), int(g.rules.SpawnRow))
	g.hasCurrent = true
	g.hasUsedHold = false
	g.resetPieceState()

	if in != nil && g.rules.HasInitialHoldSystem && g.rules.HasHoldPiece && !g.hasUsedHold &&
		in.Button(core.ButtonHold).Down() {
		g.holdCurrent()
		if !g.hasCurrent || g.hasToppedOut {
			return
		}
	}
	if in != nil && g.rules.HasInitialRotationSystem {
		switch {
		case in.Button(core.ButtonRotateCW).Down():
			TryRotate(&g.current, &g.position, true, g.field, g.rules.RotationSystem)
		case in.Button(core.ButtonRotateCCW).Down():
			TryRotate(&g.current, &g.position, false, g.field, g.rules.RotationSystem)
		}
	}

	if BlockedOut(g.current, g.position, g.field, g.rules.TopOutRule) {
		g.hasToppedOut = true
		return
	}
	if g.rules.SpawnDrop {
		minY, _ := MinMaxY(g.current.Variant, g.current.Rotation)
		for g.position.Y+int(minY) >= g.field.VisibleHeight() {
			if !TryApplyGravity(g.current, &g.position, g.field) {
				break
			}
		}
	}
}

func (g *Instance) resetPieceState() {
	g.lockDelay = NewLockDelayState(g.rules.LockDelay)
	g.isLocking = false
	g.activity = pieceActivity{}
	g.softDropSteps = 0
	g.hardDropSteps = 0
	g.lastAction = ActionMovement
	g.movementStampX = g.timestamp
	g.movementStampY = g.timestamp
	g.movementDeltaX = 0
	g.movementDeltaY = 0
}

// Reset restarts the game from the randomizer's original state.
func (g *Instance) Reset() {
	rules := g.rules
	g.rng.Reset()
	*g = *newInstance(rules, g.rng)
	for i := range g.next {
		g.next[i] = g.rng.Next()
	}
	g.spawn(nil)
}

// Rules returns a copy of the game's rules.
func (g *Instance) Rules() Rules { return g.rules }

// Playfield exposes the grid for reading. Callers must not mutate it.
func (g *Instance) Playfield() *Playfield { return g.field }

// Timestamp returns the logical clock.
func (g *Instance) Timestamp() time.Duration { return g.timestamp }

// Seed returns the randomizer seed for syncing a remote copy.
func (g *Instance) Seed() uint64 { return g.rng.Seed() }

// CurrentPiece returns the active piece and its position.
func (g *Instance) CurrentPiece() (Piece, Position, bool) {
	return g.current, g.position, g.hasCurrent
}

// HoldPiece returns the held piece.
func (g *Instance) HoldPiece() (Piece, bool) { return g.hold, g.hasHold }

// NextPieces returns the full queue, head first.
func (g *Instance) NextPieces() [NextPiecesCount]Variant { return g.next }

// PreviewPieces returns the part of the queue the rules show.
func (g *Instance) PreviewPieces() []Variant {
	return g.next[:g.rules.NextPiecesPreviewCount]
}

// Score returns the points earned so far.
func (g *Instance) Score() uint32 { return g.score }

// TotalLines returns the rows cleared so far.
func (g *Instance) TotalLines() uint32 { return g.totalLines }

// Level returns the current level.
func (g *Instance) Level() uint32 { return g.level }

// HasToppedOut reports whether the game is over.
func (g *Instance) HasToppedOut() bool { return g.hasToppedOut }

// HasUsedHold reports whether hold is spent until the next lock.
func (g *Instance) HasUsedHold() bool { return g.hasUsedHold }

// IsLocking reports whether the active piece rests on something.
func (g *Instance) IsLocking() bool { return g.isLocking }

// LockingAnimationTimestamp is when the active piece last touched down.
func (g *Instance) LockingAnimationTimestamp() time.Duration { return g.lockingAnimStamp }

// LockDelay returns the countdown of the active piece.
func (g *Instance) LockDelay() LockDelayState { return g.lockDelay }

// LockPieceTimestamp is when the last piece locked or was stashed.
func (g *Instance) LockPieceTimestamp() time.Duration { return g.lockPieceStamp }

// LastLockedPiece returns the most recent lock.
func (g *Instance) LastLockedPiece() (LockedPiece, bool) {
	if g.lastLocked == nil {
		return LockedPiece{}, false
	}
	return *g.lastLocked, true
}

// ClearPending reports whether the last lock's rows are still waiting for
// the line clear delay.
func (g *Instance) ClearPending() bool { return g.pendingClear }

// MovementAnimation describes the last movement of the active piece for
// smoothing: the offset the piece came from and when it moved.
type MovementAnimation struct {
	DeltaX     int
	DeltaY     int
	TimestampX time.Duration
	TimestampY time.Duration
}

// MovementAnimation returns the last movement deltas.
func (g *Instance) MovementAnimation() MovementAnimation {
	return MovementAnimation{
		DeltaX:     g.movementDeltaX,
		DeltaY:     g.movementDeltaY,
		TimestampX: g.movementStampX,
		TimestampY: g.movementStampY,
	}
}

// Ghost returns where the active piece would land. ok is false when there
// is no active piece or the rules hide the ghost.
func (g *Instance) Ghost() (Position, bool) {
	if !g.hasCurrent || !g.rules.HasGhostPiece {
		return Position{}, false
	}
	pos := g.position
	FullDropPiece(g.current, &pos, g.field)
	return pos, true
}

func (g *Instance) String() string {
	state := "playing"
	if g.hasToppedOut {
		state = "topped out"
	}
	return fmt.Sprintf("tetris.Instance{t=%v score=%d lines=%d level=%d %s}",
		g.timestamp, g.score, g.totalLines, g.level, state)
}
