package tetris

import "fmt"

// Cell is the content of one playfield square.
// Zero is empty; 1..7 hold Variant+1; CellWall marks out-of-bounds.
type Cell uint8

const (
	CellEmpty Cell = 0
	CellWall  Cell = 0xFF
)

// CellOf returns the occupied cell for a variant.
func CellOf(v Variant) Cell {
	return Cell(v) + 1
}

// Empty reports whether the cell holds nothing.
func (c Cell) Empty() bool {
	return c == CellEmpty
}

// Variant returns the piece variant that filled the cell.
// ok is false for empty and wall cells.
func (c Cell) Variant() (v Variant, ok bool) {
	if c == CellEmpty || c == CellWall {
		return 0, false
	}
	return Variant(c - 1), true
}

// MaxClearLines is the largest number of rows a single lock can complete.
const MaxClearLines = 4

// Playfield is a row-major grid of cells; row 0 is the floor.
// Rows at or above VisibleHeight are spawn headroom.
type Playfield struct {
	width         int
	height        int
	visibleHeight int
	cells         []Cell
}

// NewPlayfield creates an empty playfield.
func NewPlayfield(width, height, visibleHeight int) *Playfield {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("tetris: invalid playfield size %dx%d", width, height))
	}
	if visibleHeight <= 0 || visibleHeight > height {
		visibleHeight = height
	}
	return &Playfield{
		width:         width,
		height:        height,
		visibleHeight: visibleHeight,
		cells:         make([]Cell, width*height),
	}
}

// Width returns the number of columns.
func (p *Playfield) Width() int { return p.width }

// Height returns the number of rows including headroom.
func (p *Playfield) Height() int { return p.height }

// VisibleHeight returns the number of rows shown to the player.
func (p *Playfield) VisibleHeight() int { return p.visibleHeight }

// InBounds reports whether (x, y) addresses a cell.
func (p *Playfield) InBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// Block returns the cell at (x, y). Out-of-bounds coordinates return CellWall,
// so collision tests need no separate bounds check.
func (p *Playfield) Block(x, y int) Cell {
	if !p.InBounds(x, y) {
		return CellWall
	}
	return p.cells[y*p.width+x]
}

// Occupied reports whether (x, y) is filled or outside the grid.
func (p *Playfield) Occupied(x, y int) bool {
	return !p.Block(x, y).Empty()
}

// SetBlock fills (x, y) with a variant. Coordinates must be in bounds.
func (p *Playfield) SetBlock(x, y int, v Variant) {
	if !p.InBounds(x, y) {
		panic(fmt.Sprintf("tetris: set_block out of bounds (%d, %d)", x, y))
	}
	p.cells[y*p.width+x] = CellOf(v)
}

// ResetBlock empties (x, y). Coordinates must be in bounds.
func (p *Playfield) ResetBlock(x, y int) {
	if !p.InBounds(x, y) {
		panic(fmt.Sprintf("tetris: reset_block out of bounds (%d, %d)", x, y))
	}
	p.cells[y*p.width+x] = CellEmpty
}

// Cells returns a copy of the grid in row-major order.
func (p *Playfield) Cells() []Cell {
	out := make([]Cell, len(p.cells))
	copy(out, p.cells)
	return out
}

// Clone returns a deep copy of the playfield.
func (p *Playfield) Clone() *Playfield {
	c := *p
	c.cells = p.Cells()
	return &c
}

// Reset empties every cell.
func (p *Playfield) Reset() {
	clear(p.cells)
}

// rowFull reports whether every cell of row y is occupied.
func (p *Playfield) rowFull(y int) bool {
	row := p.cells[y*p.width : (y+1)*p.width]
	for _, c := range row {
		if c.Empty() {
			return false
		}
	}
	return true
}

// LinesToClear scans rows from the top down and returns the number of full
// rows and their indices in scan order, capped at MaxClearLines.
func (p *Playfield) LinesToClear() (int, [MaxClearLines]int) {
	var rows [MaxClearLines]int
	n := 0
	for y := p.height - 1; y >= 0 && n < MaxClearLines; y-- {
		if p.rowFull(y) {
			rows[n] = y
			n++
		}
	}
	return n, rows
}

// ClearLinesNaive removes every full row, shifting the rows above down while
// keeping their order. Vacated rows at the top become empty. Returns the
// number of rows removed.
func (p *Playfield) ClearLinesNaive() int {
	write := 0
	for y := 0; y < p.height; y++ {
		if p.rowFull(y) {
			continue
		}
		if write != y {
			copy(p.cells[write*p.width:(write+1)*p.width], p.cells[y*p.width:(y+1)*p.width])
		}
		write++
	}
	cleared := p.height - write
	clear(p.cells[write*p.width:])
	return cleared
}

// ClearLines applies a line clear rule. Only the naive rule is supported.
func (p *Playfield) ClearLines(rule LineClearRule) int {
	switch rule {
	case LineClearNaive:
		return p.ClearLinesNaive()
	case LineClearSticky, LineClearCascade:
		panic(fmt.Sprintf("tetris: line clear rule %s not implemented", rule))
	default:
		panic(fmt.Sprintf("tetris: unknown line clear rule %d", rule))
	}
}

// restoreCells replaces the grid contents. len(cells) must match the size.
func (p *Playfield) restoreCells(cells []Cell) {
	if len(cells) != len(p.cells) {
		panic(fmt.Sprintf("tetris: restore %d cells into %dx%d playfield", len(cells), p.width, p.height))
	}
	copy(p.cells, cells)
}
