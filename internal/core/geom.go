// Package core holds the types shared by the engine adapter and the
// terminal front-end: input frames, held buttons and a drawable screen.
// It does not import Bubble Tea.
package core

// Rect is a screen area with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}
