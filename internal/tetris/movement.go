package tetris

import "fmt"

// fits reports whether every block of piece at pos lands on an empty cell.
func fits(piece Piece, pos Position, field *Playfield) bool {
	for _, o := range piece.Blocks() {
		if field.Occupied(pos.X+o.X, pos.Y+o.Y) {
			return false
		}
	}
	return true
}

// TryMove shifts pos by (dx, dy) if the piece fits there. On failure pos is
// left untouched.
func TryMove(piece Piece, pos *Position, field *Playfield, dx, dy int) bool {
	next := pos.Add(dx, dy)
	if !fits(piece, next, field) {
		return false
	}
	*pos = next
	return true
}

// IsLocking reports whether the piece rests on something.
func IsLocking(piece Piece, pos Position, field *Playfield) bool {
	return !fits(piece, pos.Add(0, -1), field)
}

// TryApplyGravity moves the piece one row down.
func TryApplyGravity(piece Piece, pos *Position, field *Playfield) bool {
	return TryMove(piece, pos, field, 0, -1)
}

// FullDropPiece applies gravity until blocked and returns the rows fallen.
func FullDropPiece(piece Piece, pos *Position, field *Playfield) int {
	steps := 0
	for TryApplyGravity(piece, pos, field) {
		steps++
	}
	return steps
}

// Kick tables are (dx, dy) tests with y up, indexed by [from][direction]
// where direction 0 is clockwise and 1 counter-clockwise.
var srsKicksJLSTZ = [4][2][5]Offset{
	{ // 0
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 0->R
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 0->L
	},
	{ // R
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}}, // R->2
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}}, // R->0
	},
	{ // 2
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // 2->L
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // 2->R
	},
	{ // L
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // L->0
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // L->2
	},
}

var srsKicksI = [4][2][5]Offset{
	{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // 0->R
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // 0->L
	},
	{
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}}, // R->2
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // R->0
	},
	{
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}}, // 2->L
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // 2->R
	},
	{
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}}, // L->0
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, // L->2
	},
}

var srsKicksO = [1]Offset{{0, 0}}

// SRSKicks returns the ordered offset tests for rotating piece one step.
func SRSKicks(piece Piece, clockwise bool) []Offset {
	dir := 1
	if clockwise {
		dir = 0
	}
	switch piece.Variant {
	case VariantO:
		return srsKicksO[:]
	case VariantI:
		return srsKicksI[piece.Rotation&3][dir][:]
	default:
		return srsKicksJLSTZ[piece.Rotation&3][dir][:]
	}
}

// TryRotate turns the piece one step under the given rotation system.
// Either both piece and pos are updated or neither is.
// ARS and DTET kicks are not implemented and panic.
func TryRotate(piece *Piece, pos *Position, clockwise bool, field *Playfield, system RotationSystem) bool {
	rotated := piece.Rotated(clockwise)
	switch system {
	case RotationOriginal, RotationNRSL, RotationNRSR, RotationSega:
		if !fits(rotated, *pos, field) {
			return false
		}
		*piece = rotated
		return true
	case RotationSRS:
		for _, k := range SRSKicks(*piece, clockwise) {
			next := pos.Add(k.X, k.Y)
			if fits(rotated, next, field) {
				*piece = rotated
				*pos = next
				return true
			}
		}
		return false
	case RotationARS, RotationDTET:
		panic(fmt.Sprintf("tetris: %s wall kicks not implemented", system))
	default:
		panic(fmt.Sprintf("tetris: unknown rotation system %d", system))
	}
}

// LockPiece writes the piece into the grid without checking for collisions.
func LockPiece(piece Piece, pos Position, field *Playfield) {
	for _, o := range piece.Blocks() {
		field.SetBlock(pos.X+o.X, pos.Y+o.Y, piece.Variant)
	}
}

// BlockedOut reports a block out: the rules enable it and the freshly
// spawned piece overlaps existing blocks.
func BlockedOut(piece Piece, pos Position, field *Playfield, rule TopOutRule) bool {
	return rule.Has(TopOutBlockOut) && !fits(piece, pos, field)
}

// LockedOut reports a lock out for a piece that has just locked at pos.
// LOCK_OUT fires when all blocks are at or above visibleHeight and
// PARTIAL_LOCK_OUT when any is; with both set either condition is enough.
func LockedOut(piece Piece, pos Position, rule TopOutRule, visibleHeight int) bool {
	above := 0
	for _, o := range piece.Blocks() {
		if pos.Y+o.Y >= visibleHeight {
			above++
		}
	}
	if rule.Has(TopOutLockOut) && above == len(piece.Blocks()) {
		return true
	}
	return rule.Has(TopOutPartialLockOut) && above > 0
}

// SpawnPosition returns where a piece enters the field: horizontally
// centered with its lowest block on spawnRow.
func SpawnPosition(piece Piece, width int, spawnRow int) Position {
	minY, _ := MinMaxY(piece.Variant, piece.Rotation)
	return Position{X: width/2 - 2, Y: spawnRow - int(minY)}
}
