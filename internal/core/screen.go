package core

import "strings"

// Cell is one character of a Screen with its foreground color.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' '}

// Screen is a fixed-size grid of colored runes. Games draw into it and the
// terminal layer turns it into styled text. Writes outside the grid are
// dropped.
type Screen struct {
	w, h  int
	cells []Cell // row-major
}

// NewScreen returns a blank w×h screen.
func NewScreen(w, h int) *Screen {
	s := &Screen{}
	s.Resize(w, h)
	return s
}

func (s *Screen) Width() int  { return s.w }
func (s *Screen) Height() int { return s.h }

// Resize changes the grid size, keeping the overlapping top-left area.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if s.cells != nil && w == s.w && h == s.h {
		return
	}
	next := make([]Cell, w*h)
	for i := range next {
		next[i] = blank
	}
	for y := range min(h, s.h) {
		copy(next[y*w:y*w+min(w, s.w)], s.Line(y))
	}
	s.w, s.h, s.cells = w, h, next
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

func (s *Screen) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.w && y < s.h
}

// SetColored writes one rune.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if s.inside(x, y) {
		s.cells[y*s.w+x] = Cell{Rune: r, Color: c}
	}
}

// GetCell returns a blank cell outside the grid.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inside(x, y) {
		return blank
	}
	return s.cells[y*s.w+x]
}

// Line returns row y. The slice aliases the screen; callers must not keep it
// across draws.
func (s *Screen) Line(y int) []Cell {
	if y < 0 || y >= s.h {
		return nil
	}
	return s.cells[y*s.w : (y+1)*s.w]
}

// DrawText writes text left to right from (x, y) in the default color.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored writes text left to right from (x, y).
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	for _, r := range text {
		s.SetColored(x, y, r, c)
		x++
	}
}

// DrawTextCentered writes text centered on row y.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawText((s.w-len([]rune(text)))/2, y, text)
}

// DrawBox outlines r with light box-drawing runes.
func (s *Screen) DrawBox(r Rect, c Color) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		s.SetColored(x, r.Y, '─', c)
		s.SetColored(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColored(r.X, y, '│', c)
		s.SetColored(right, y, '│', c)
	}
	s.SetColored(r.X, r.Y, '┌', c)
	s.SetColored(right, r.Y, '┐', c)
	s.SetColored(r.X, bottom, '└', c)
	s.SetColored(right, bottom, '┘', c)
}

// String is the screen as plain text, one line per row.
func (s *Screen) String() string {
	lines := make([]string, s.h)
	for y := range lines {
		var sb strings.Builder
		for _, c := range s.Line(y) {
			sb.WriteRune(c.Rune)
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
