package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// KeyMap holds the bindings of the game screens.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	SoftDrop   key.Binding
	HardDrop   key.Binding
	RotateCW   key.Binding
	RotateCCW  key.Binding
	Hold       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// DefaultKeyMap returns the default game bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "soft drop"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hard drop"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("up", "x", "k"),
			key.WithHelp("↑/x", "rotate"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z", "Z"),
			key.WithHelp("z", "rotate ccw"),
		),
		Hold: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "hold"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Hold, k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Hold},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// Action translates a key message to an action. Quit and Screenshot are
// left to the caller; unmatched keys return ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.SoftDrop):
		return core.ActionSoftDrop
	case key.Matches(msg, k.HardDrop):
		return core.ActionHardDrop
	case key.Matches(msg, k.RotateCW):
		return core.ActionRotateCW
	case key.Matches(msg, k.RotateCCW):
		return core.ActionRotateCCW
	case key.Matches(msg, k.Hold):
		return core.ActionHold
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	}
	return core.ActionNone
}

// MenuKeyMap holds the bindings of the menu screens.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns the default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scores, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// keyHoldTimeout is how long a repeatable key counts as held after the last
// key event for it. Terminals deliver no key-up, only autorepeat.
const keyHoldTimeout = 150 * time.Millisecond

// repeatable actions are held while terminal autorepeat keeps arriving; all
// other actions are tapped and released on the following tick.
func repeatable(a core.Action) bool {
	switch a {
	case core.ActionLeft, core.ActionRight, core.ActionSoftDrop:
		return true
	}
	return false
}

// keyboard turns terminal key events into press and release edges on the
// logical tick clock.
type keyboard struct {
	now     time.Duration
	held    map[core.Action]time.Duration
	pending core.InputFrame
	tapped  []core.Action
}

func newKeyboard() *keyboard {
	return &keyboard{held: make(map[core.Action]time.Duration)}
}

// Key records a key event for a gameplay action.
func (k *keyboard) Key(a core.Action) {
	if !repeatable(a) {
		k.pending.Press(a)
		k.tapped = append(k.tapped, a)
		return
	}
	if _, ok := k.held[a]; !ok {
		k.pending.Press(a)
	}
	k.held[a] = k.now
}

// Flush returns the input of a tick of length dt and starts the next one.
func (k *keyboard) Flush(dt time.Duration) core.InputFrame {
	k.now += dt
	frame := k.pending
	k.pending = core.InputFrame{}

	for a, last := range k.held {
		if k.now-last >= keyHoldTimeout {
			frame.Release(a)
			delete(k.held, a)
		}
	}
	for _, a := range k.tapped {
		k.pending.Release(a)
	}
	k.tapped = k.tapped[:0]
	return frame
}

// Reset forgets every held key.
func (k *keyboard) Reset() {
	clear(k.held)
	k.pending = core.InputFrame{}
	k.tapped = k.tapped[:0]
}
