package tetris

import (
	"fmt"
	"time"
)

// NetworkPlayfield is the wire shape of a playfield.
type NetworkPlayfield struct {
	Width  int32
	Height int32
	Cells  []Cell
}

// PlacedPiece is a piece at a position.
type PlacedPiece struct {
	Piece    Piece
	Position Position
}

// Snapshot is the state sent to a remote copy of an instance on every
// change. Rules and the randomizer seed travel once, at match start.
type Snapshot struct {
	Timestamp              uint64
	HasToppedOut           bool
	Playfield              NetworkPlayfield
	CurrentScore           uint32
	TotalLinesCleared      uint32
	CurrentPiece           *PlacedPiece
	NextPieceTypes         [NextPiecesCount]Variant
	LockPieceTimestamp     uint64
	LastLockedPiece        *LockedPiece
	HoldPiece              *Piece
	MovementLastTimestampX uint64
	MovementLastTimestampY uint64
}

func durationToWire(d time.Duration) uint64 {
	return uint64(max(d, 0))
}

func wireToDuration(v uint64) time.Duration {
	return time.Duration(v)
}

// ToNetwork captures the instance state.
func (g *Instance) ToNetwork() Snapshot {
	s := Snapshot{
		Timestamp:    durationToWire(g.timestamp),
		HasToppedOut: g.hasToppedOut,
		Playfield: NetworkPlayfield{
			Width:  int32(g.field.Width()),
			Height: int32(g.field.Height()),
			Cells:  g.field.Cells(),
		},
		CurrentScore:           g.score,
		TotalLinesCleared:      g.totalLines,
		NextPieceTypes:         g.next,
		LockPieceTimestamp:     durationToWire(g.lockPieceStamp),
		MovementLastTimestampX: durationToWire(g.movementStampX),
		MovementLastTimestampY: durationToWire(g.movementStampY),
	}
	if g.hasCurrent {
		s.CurrentPiece = &PlacedPiece{Piece: g.current, Position: g.position}
	}
	if g.lastLocked != nil {
		lp := *g.lastLocked
		s.LastLockedPiece = &lp
	}
	if g.hasHold {
		h := g.hold
		s.HoldPiece = &h
	}
	return s
}

// FromNetwork builds an instance mirroring a remote one. rules and seed are
// the values agreed at match start.
func FromNetwork(rules Rules, seed uint64, s Snapshot) (*Instance, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	rng, err := NewRandomizer(rules.Randomizer, seed, rules.Sequence)
	if err != nil {
		return nil, err
	}
	g := newInstance(rules, rng)
	if err := g.UpdateFromNetwork(s); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateFromNetwork overwrites the instance with a snapshot, including the
// logical clock. Per-piece drop counters and animation state restart.
func (g *Instance) UpdateFromNetwork(s Snapshot) error {
	w, h := int(s.Playfield.Width), int(s.Playfield.Height)
	if w != g.rules.GridWidth || h != g.rules.GridHeight {
		return &DecodeError{Field: "playfield", Err: fmt.Errorf("%w: grid %dx%d, rules expect %dx%d",
			ErrOutOfRange, w, h, g.rules.GridWidth, g.rules.GridHeight)}
	}
	if len(s.Playfield.Cells) != w*h {
		return &DecodeError{Field: "playfield.cells", Err: fmt.Errorf("%w: %d cells for %dx%d",
			ErrOutOfRange, len(s.Playfield.Cells), w, h)}
	}
	for _, c := range s.Playfield.Cells {
		if c > CellOf(VariantT) {
			return &DecodeError{Field: "playfield.cells", Err: fmt.Errorf("%w: cell %d", ErrOutOfRange, c)}
		}
	}

	g.field.restoreCells(s.Playfield.Cells)
	g.timestamp = wireToDuration(s.Timestamp)
	g.hasToppedOut = s.HasToppedOut
	g.score = s.CurrentScore
	g.totalLines = s.TotalLinesCleared
	g.level = g.rules.Level.LevelFor(g.totalLines)
	g.next = s.NextPieceTypes
	g.lockPieceStamp = wireToDuration(s.LockPieceTimestamp)

	g.hasCurrent = s.CurrentPiece != nil
	if g.hasCurrent {
		g.current = s.CurrentPiece.Piece
		g.position = s.CurrentPiece.Position
	}
	g.hasHold = s.HoldPiece != nil
	if g.hasHold {
		g.hold = *s.HoldPiece
	}

	g.lastLocked = nil
	g.pendingClear = false
	if s.LastLockedPiece != nil {
		lp := *s.LastLockedPiece
		g.lastLocked = &lp
		// Rows still full on the grid have not been scored yet.
		r := lp.Result
		g.pendingClear = !g.hasCurrent && r.Count > 0 && g.field.InBounds(0, r.Rows[0]) && g.field.rowFull(r.Rows[0])
	}

	g.resetPieceState()
	g.movementStampX = wireToDuration(s.MovementLastTimestampX)
	g.movementStampY = wireToDuration(s.MovementLastTimestampY)
	if g.hasCurrent {
		g.isLocking = IsLocking(g.current, g.position, g.field)
	}
	return nil
}
