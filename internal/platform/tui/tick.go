// Package tui provides the Bubble Tea front-end: the mode menu with its
// preview animation, the game and versus screens, the scoreboard, and the
// wish SSH server that hosts them.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick. ID ties the tick to the
// model that scheduled it, so a stale tick chain dies when screens switch.
type TickMsg struct {
	ID   uint64
	Time time.Time
}

var tickIDs atomic.Uint64

func newTickID() uint64 {
	return tickIDs.Add(1)
}

// tickCmd returns a command that sends one TickMsg after interval.
func tickCmd(id uint64, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}
