package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // A, Left arrow - shift piece left
	ActionRight            // D, Right arrow - shift piece right
	ActionSoftDrop         // S, Down arrow - soft drop
	ActionHardDrop         // Space - hard drop
	ActionRotateCW         // X, Up arrow - rotate clockwise
	ActionRotateCCW        // Z - rotate counter-clockwise
	ActionHold             // C, Shift - hold piece
	ActionUp               // Up arrow - menu navigation
	ActionDown             // Down arrow - menu navigation
	ActionConfirm          // Enter - confirm selection in menu
	ActionBack             // B, Escape - go back to menu
	ActionRestart          // R key - restart game after game over
	ActionQuit             // Q, Ctrl+C - exit game/session
	ActionPause            // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionHold:
		return "Hold"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Button names consumed by the tetris engine.
const (
	ButtonLeft      = "left"
	ButtonRight     = "right"
	ButtonSoftDrop  = "soft_drop"
	ButtonHardDrop  = "hard_drop"
	ButtonRotateCW  = "rotate_cw"
	ButtonRotateCCW = "rotate_ccw"
	ButtonHold      = "hold"
)

var buttonActions = map[string]Action{
	ButtonLeft:      ActionLeft,
	ButtonRight:     ActionRight,
	ButtonSoftDrop:  ActionSoftDrop,
	ButtonHardDrop:  ActionHardDrop,
	ButtonRotateCW:  ActionRotateCW,
	ButtonRotateCCW: ActionRotateCCW,
	ButtonHold:      ActionHold,
}

// ActionForButton returns the action bound to a named button.
func ActionForButton(name string) (Action, bool) {
	a, ok := buttonActions[name]
	return a, ok
}

// ButtonName returns the button name of a gameplay action, or "" for
// menu and session actions.
func (a Action) ButtonName() string {
	for name, action := range buttonActions {
		if action == a {
			return name
		}
	}
	return ""
}

// EdgeKind distinguishes key-down from key-up events.
type EdgeKind uint8

const (
	EdgePress EdgeKind = iota
	EdgeRelease
)

func (k EdgeKind) String() string {
	if k == EdgeRelease {
		return "release"
	}
	return "press"
}

// InputEvent is a single press or release of an action.
type InputEvent struct {
	Action Action
	Kind   EdgeKind
}

// InputFrame represents the input for a single player during one simulation tick.
// Events are kept in arrival order so press and release within one tick both apply.
type InputFrame struct {
	Events []InputEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Press records a key-down of a.
func (f *InputFrame) Press(a Action) {
	f.Events = append(f.Events, InputEvent{Action: a, Kind: EdgePress})
}

// Release records a key-up of a.
func (f *InputFrame) Release(a Action) {
	f.Events = append(f.Events, InputEvent{Action: a, Kind: EdgeRelease})
}

// Set marks an action as pressed for this frame.
func (f *InputFrame) Set(a Action) {
	f.Press(a)
}

// Has returns true if the given action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	for _, e := range f.Events {
		if e.Action == a && e.Kind == EdgePress {
			return true
		}
	}
	return false
}

// Empty reports whether the frame carries no events.
func (f InputFrame) Empty() bool {
	return len(f.Events) == 0
}

// Clear resets all events for the next frame.
func (f *InputFrame) Clear() {
	f.Events = f.Events[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.Events = append(clone.Events, f.Events...)
	return clone
}
