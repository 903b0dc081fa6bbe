// Package tetris implements a configurable falling-block rules engine.
// It simulates a single playfield deterministically from button input and
// elapsed time, with no I/O and no wall clock reads, so the same engine drives
// local play, network-synchronized versus matches, and preview animations.
package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Variant identifies one of the seven tetromino shapes.
type Variant uint8

const (
	VariantS Variant = iota
	VariantZ
	VariantJ
	VariantL
	VariantO
	VariantI
	VariantT
)

// VariantCount is the number of distinct piece variants.
const VariantCount = 7

// AllVariants lists the variants in catalog order.
var AllVariants = [VariantCount]Variant{VariantS, VariantZ, VariantJ, VariantL, VariantO, VariantI, VariantT}

var variantNames = [VariantCount]string{"S", "Z", "J", "L", "O", "I", "T"}

// String returns the single-letter name of the variant.
func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
	return variantNames[v]
}

// Valid reports whether v names a real piece.
func (v Variant) Valid() bool {
	return v < VariantCount
}

// ParseVariant converts a single-letter name to a Variant.
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("tetris: unknown piece variant %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Color returns the display color of the variant.
func (v Variant) Color() core.Color {
	switch v {
	case VariantS:
		return core.ColorGreen
	case VariantZ:
		return core.ColorRed
	case VariantJ:
		return core.ColorBlue
	case VariantL:
		return core.ColorOrange
	case VariantO:
		return core.ColorYellow
	case VariantI:
		return core.ColorCyan
	case VariantT:
		return core.ColorMagenta
	default:
		return core.ColorDefault
	}
}

// Offset is a block offset relative to a piece position. Y grows upward.
type Offset struct {
	X, Y int
}

// pieceBlocks holds the four rotation states of every variant, indexed by
// [variant][rotation]. States follow the standard spawn orientation with
// clockwise rotation; JLSTZ live in a 3x3 box, I and O in a 4-wide box.
var pieceBlocks = [VariantCount][4][4]Offset{
	VariantS: {
		{{1, 2}, {2, 2}, {0, 1}, {1, 1}},
		{{1, 2}, {1, 1}, {2, 1}, {2, 0}},
		{{1, 1}, {2, 1}, {0, 0}, {1, 0}},
		{{0, 2}, {0, 1}, {1, 1}, {1, 0}},
	},
	VariantZ: {
		{{0, 2}, {1, 2}, {1, 1}, {2, 1}},
		{{2, 2}, {1, 1}, {2, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {1, 0}, {2, 0}},
		{{1, 2}, {0, 1}, {1, 1}, {0, 0}},
	},
	VariantJ: {
		{{0, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {2, 2}, {1, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 0}},
		{{1, 2}, {1, 1}, {0, 0}, {1, 0}},
	},
	VariantL: {
		{{2, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {1, 1}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 0}},
		{{0, 2}, {1, 2}, {1, 1}, {1, 0}},
	},
	VariantO: {
		{{1, 2}, {2, 2}, {1, 1}, {2, 1}},
		{{1, 2}, {2, 2}, {1, 1}, {2, 1}},
		{{1, 2}, {2, 2}, {1, 1}, {2, 1}},
		{{1, 2}, {2, 2}, {1, 1}, {2, 1}},
	},
	VariantI: {
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{2, 3}, {2, 2}, {2, 1}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{1, 3}, {1, 2}, {1, 1}, {1, 0}},
	},
	VariantT: {
		{{1, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {1, 1}, {2, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 0}},
		{{1, 2}, {0, 1}, {1, 1}, {1, 0}},
	},
}

// bounds caches min/max per [variant][rotation]: {minX, maxX, minY, maxY}.
var bounds [VariantCount][4][4]uint8

func init() {
	for v := range VariantCount {
		for r := range 4 {
			b := pieceBlocks[v][r]
			minX, maxX, minY, maxY := b[0].X, b[0].X, b[0].Y, b[0].Y
			for _, o := range b[1:] {
				minX = min(minX, o.X)
				maxX = max(maxX, o.X)
				minY = min(minY, o.Y)
				maxY = max(maxY, o.Y)
			}
			bounds[v][r] = [4]uint8{uint8(minX), uint8(maxX), uint8(minY), uint8(maxY)}
		}
	}
}

// NormalizeRotation folds any integer rotation into [0, 4).
func NormalizeRotation(r int) uint8 {
	return uint8(((r % 4) + 4) % 4)
}

// Blocks returns the four block offsets of a variant in a rotation state.
func Blocks(v Variant, rotation uint8) [4]Offset {
	return pieceBlocks[v][rotation&3]
}

// MinMaxX returns the smallest and largest X offset of the rotation state.
func MinMaxX(v Variant, rotation uint8) (uint8, uint8) {
	b := bounds[v][rotation&3]
	return b[0], b[1]
}

// MinMaxY returns the smallest and largest Y offset of the rotation state.
func MinMaxY(v Variant, rotation uint8) (uint8, uint8) {
	b := bounds[v][rotation&3]
	return b[2], b[3]
}

// Piece is a variant in a particular rotation state.
type Piece struct {
	Variant  Variant
	Rotation uint8 // always in [0, 4)
}

// NewPiece returns a piece of the given variant in its spawn orientation.
func NewPiece(v Variant) Piece {
	return Piece{Variant: v}
}

// Rotated returns the piece turned one step in the given direction.
func (p Piece) Rotated(clockwise bool) Piece {
	step := -1
	if clockwise {
		step = 1
	}
	p.Rotation = NormalizeRotation(int(p.Rotation) + step)
	return p
}

// Blocks returns the block offsets of the piece.
func (p Piece) Blocks() [4]Offset {
	return Blocks(p.Variant, p.Rotation)
}

// Position is a playfield coordinate. Row 0 is the floor.
type Position struct {
	X, Y int
}

// Add returns the position shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
