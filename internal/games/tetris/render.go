package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	engine "github.com/vovakirdan/tui-tetris/internal/tetris"
)

const (
	cellWidth  = 2  // Characters per playfield column
	sideWidth  = 10 // Hold and next boxes
	sideGap    = 1
	pieceRows  = 3 // Rows per queued piece in the next box
	blockRune  = '█'
	ghostRune  = '░'
	clearRune  = '▓'
	floorGuide = '·'
)

// PanelSize returns the screen area one board with its side boxes needs.
func PanelSize(rules engine.Rules) (w, h int) {
	boardW := rules.GridWidth*cellWidth + 2
	return sideWidth + sideGap + boardW + sideGap + sideWidth, rules.VisibleHeight + 2
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderError(dst)
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	w, h := PanelSize(g.rules)
	x := (g.screenW - w) / 2
	y := max((g.screenH-h-1)/2, 0)

	DrawPanel(dst, g.inst, x, y+1)
	dst.DrawTextCentered(y, g.title)

	g.renderOverlays(dst, x, y+1, w, h)
}

func (g *Game) renderError(dst *core.Screen) {
	dst.DrawTextCentered(g.screenH/2-1, "Cannot start game")
	msg := g.err.Error()
	if len(msg) > g.screenW-2 && g.screenW > 5 {
		msg = msg[:g.screenW-5] + "..."
	}
	dst.DrawTextColored(max((g.screenW-len(msg))/2, 0), g.screenH/2+1, msg, core.ColorRed)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := PanelSize(g.rules)
	dst.DrawTextCentered(g.screenH/2, "Window too small")
	dst.DrawTextCentered(g.screenH/2+1, fmt.Sprintf("Need %dx%d", w, h+1))
}

func (g *Game) renderOverlays(dst *core.Screen, x, y, w, h int) {
	var lines []string
	switch {
	case g.inst.HasToppedOut():
		lines = []string{" GAME OVER ", fmt.Sprintf(" Score %d ", g.inst.Score()), " R restart  Q quit "}
	case g.paused:
		lines = []string{" PAUSED ", " P resume "}
	default:
		return
	}
	cy := y + h/2 - len(lines)/2
	for i, line := range lines {
		dst.DrawTextColored(x+(w-len([]rune(line)))/2, cy+i, line, core.ColorBrightWhite)
	}
}

// DrawPanel draws the hold box, the playfield and the next queue of inst
// with the top-left corner at (x, y). Stats go under the hold box.
func DrawPanel(dst *core.Screen, inst *engine.Instance, x, y int) {
	rules := inst.Rules()
	boardX := x + sideWidth + sideGap
	boardW := rules.GridWidth*cellWidth + 2
	nextX := boardX + boardW + sideGap

	drawHold(dst, inst, core.NewRect(x, y, sideWidth, 4))
	drawStats(dst, inst, x, y+5)
	DrawBoard(dst, inst, boardX, y)
	drawNext(dst, inst, nextX, y)
}

// DrawBoard draws only the bordered playfield with the active piece.
func DrawBoard(dst *core.Screen, inst *engine.Instance, x, y int) {
	field := inst.Playfield()
	rules := inst.Rules()
	visible := field.VisibleHeight()
	dst.DrawBox(core.NewRect(x, y, field.Width()*cellWidth+2, visible+2), core.ColorGray)

	// Row index in engine coordinates to screen row.
	screenY := func(row int) int { return y + 1 + (visible - 1 - row) }
	drawCell := func(col, row int, r rune, c core.Color) {
		if row < 0 || row >= visible {
			return
		}
		sx := x + 1 + col*cellWidth
		for i := range cellWidth {
			dst.SetColored(sx+i, screenY(row), r, c)
		}
	}

	for row := range visible {
		for col := range field.Width() {
			cell := field.Block(col, row)
			if v, ok := cell.Variant(); ok {
				drawCell(col, row, blockRune, v.Color())
			} else if col%2 == 0 && row%2 == 0 {
				dst.SetColored(x+1+col*cellWidth, screenY(row), floorGuide, core.ColorGray)
			}
		}
	}

	// Rows waiting for the line clear delay.
	if lp, ok := inst.LastLockedPiece(); ok && inst.ClearPending() {
		for i := range lp.Result.Count {
			row := lp.Result.Rows[i]
			for col := range field.Width() {
				drawCell(col, row, clearRune, core.ColorBrightWhite)
			}
		}
	}

	piece, pos, ok := inst.CurrentPiece()
	if !ok {
		return
	}
	if ghost, ok := inst.Ghost(); ok && ghost != pos {
		for _, o := range piece.Blocks() {
			drawCell(ghost.X+o.X, ghost.Y+o.Y, ghostRune, core.ColorGray)
		}
	}

	color := piece.Variant.Color()
	if inst.IsLocking() && rules.LockingAnimation.Enabled &&
		inst.Timestamp()-inst.LockingAnimationTimestamp() < rules.LockingAnimation.Duration {
		color = core.ColorBrightWhite
	}
	for _, o := range piece.Blocks() {
		drawCell(pos.X+o.X, pos.Y+o.Y, blockRune, color)
	}
}

// drawMini draws a piece in spawn orientation with its top row at y.
func drawMini(dst *core.Screen, v engine.Variant, x, y int, c core.Color) {
	_, maxY := engine.MinMaxY(v, 0)
	minX, _ := engine.MinMaxX(v, 0)
	for _, o := range engine.Blocks(v, 0) {
		sx := x + (o.X-int(minX))*cellWidth
		sy := y + int(maxY) - o.Y
		for i := range cellWidth {
			dst.SetColored(sx+i, sy, blockRune, c)
		}
	}
}

func drawHold(dst *core.Screen, inst *engine.Instance, r core.Rect) {
	if !inst.Rules().HasHoldPiece {
		return
	}
	dst.DrawBox(r, core.ColorGray)
	dst.DrawText(r.X+1, r.Y, "HOLD")
	hold, ok := inst.HoldPiece()
	if !ok {
		return
	}
	c := hold.Variant.Color()
	if inst.HasUsedHold() {
		c = core.ColorGray
	}
	drawMini(dst, hold.Variant, r.X+1, r.Y+1, c)
}

func drawStats(dst *core.Screen, inst *engine.Instance, x, y int) {
	dst.DrawText(x, y, "SCORE")
	dst.DrawTextColored(x, y+1, fmt.Sprintf("%d", inst.Score()), core.ColorBrightWhite)
	dst.DrawText(x, y+3, "LINES")
	dst.DrawTextColored(x, y+4, fmt.Sprintf("%d", inst.TotalLines()), core.ColorBrightWhite)
	dst.DrawText(x, y+6, "LEVEL")
	dst.DrawTextColored(x, y+7, fmt.Sprintf("%d", inst.Level()), core.ColorBrightWhite)

	if lp, ok := inst.LastLockedPiece(); ok && lp.Result.Count > 0 {
		dst.DrawTextColored(x, y+9, lp.Result.Kind().String(), core.ColorBrightYellow)
	}
}

func drawNext(dst *core.Screen, inst *engine.Instance, x, y int) {
	queue := inst.PreviewPieces()
	if len(queue) == 0 {
		return
	}
	dst.DrawBox(core.NewRect(x, y, sideWidth, len(queue)*pieceRows+1), core.ColorGray)
	dst.DrawText(x+1, y, "NEXT")
	for i, v := range queue {
		drawMini(dst, v, x+1, y+1+i*pieceRows, v.Color())
	}
}
