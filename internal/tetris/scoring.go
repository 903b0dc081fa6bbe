package tetris

import "fmt"

// PieceAction is the last kind of input that changed a piece.
type PieceAction uint8

const (
	ActionMovement PieceAction = iota
	ActionRotation
)

func (a PieceAction) String() string {
	if a == ActionRotation {
		return "rotation"
	}
	return "movement"
}

// ClearKind classifies a lock by the number of rows it completed.
type ClearKind uint8

const (
	ClearNothing ClearKind = iota
	ClearSingle
	ClearDouble
	ClearTriple
	ClearTetris
)

func (k ClearKind) String() string {
	switch k {
	case ClearNothing:
		return "nothing"
	case ClearSingle:
		return "single"
	case ClearDouble:
		return "double"
	case ClearTriple:
		return "triple"
	case ClearTetris:
		return "tetris"
	default:
		return fmt.Sprintf("ClearKind(%d)", uint8(k))
	}
}

// LockedPieceResult lists the rows a lock completed, in scan order.
type LockedPieceResult struct {
	Count int
	Rows  [MaxClearLines]int
}

// Kind returns the clear classification.
func (r LockedPieceResult) Kind() ClearKind {
	return ClearKind(r.Count)
}

// Lines returns the completed rows.
func (r LockedPieceResult) Lines() []int {
	return r.Rows[:r.Count]
}

// LockedPiece records a lock for deferred scoring and clear animation.
type LockedPiece struct {
	Piece         Piece
	Position      Position
	SoftDropSteps uint32
	HardDropSteps uint32
	LastAction    PieceAction
	Result        LockedPieceResult
}

// Points returns the score awarded for a lock made at level.
func (s ScoringRule) Points(level uint32, lp LockedPiece) uint32 {
	var base uint32
	switch lp.Result.Kind() {
	case ClearSingle:
		base = s.Single
	case ClearDouble:
		base = s.Double
	case ClearTriple:
		base = s.Triple
	case ClearTetris:
		base = s.Tetris
	}
	return base*max(level, 1) +
		lp.SoftDropSteps*s.SoftDropPerStep +
		lp.HardDropSteps*s.HardDropPerStep
}
