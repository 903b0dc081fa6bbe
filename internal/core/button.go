package core

import "time"

// Button is the state of one button as seen during the current tick.
// All queries are pure functions of the press timestamp and the tick
// window, so asking twice in one tick gives the same answer.
type Button struct {
	down      bool
	pressed   bool
	released  bool
	pressedAt time.Duration
	prev      time.Duration
	now       time.Duration
}

// Down reports whether the button is held.
func (b Button) Down() bool { return b.down }

// Pressed reports whether the button went down during this tick.
func (b Button) Pressed() bool { return b.pressed }

// Released reports whether the button went up during this tick.
func (b Button) Released() bool { return b.released }

// PressedRepeat fires on press and then every interval while held.
func (b Button) PressedRepeat(interval time.Duration) bool {
	return b.PressedRepeatWithDelay(interval, interval)
}

// PressedRepeatWithDelay fires on press, again after delay, and then every
// interval while held.
func (b Button) PressedRepeatWithDelay(delay, interval time.Duration) bool {
	if b.pressed {
		return true
	}
	if !b.down || interval <= 0 {
		return false
	}
	return repeatCount(b.now-b.pressedAt, delay, interval) > repeatCount(b.prev-b.pressedAt, delay, interval)
}

func repeatCount(elapsed, delay, interval time.Duration) int64 {
	if elapsed < delay {
		return 0
	}
	return 1 + int64((elapsed-delay)/interval)
}

type buttonState struct {
	down      bool
	pressed   bool
	released  bool
	pressedAt time.Duration
}

// ButtonSet turns press/release events into Button states on its own
// monotonic clock. Live keyboard input and scripted input feed it the same way.
type ButtonSet struct {
	prev    time.Duration
	now     time.Duration
	buttons map[Action]*buttonState
}

// NewButtonSet creates a button set with every button up.
func NewButtonSet() *ButtonSet {
	return &ButtonSet{buttons: make(map[Action]*buttonState)}
}

func (s *ButtonSet) state(a Action) *buttonState {
	st, ok := s.buttons[a]
	if !ok {
		st = &buttonState{}
		s.buttons[a] = st
	}
	return st
}

// Advance moves the clock by dt and applies the frame's events in order.
// Edge flags from the previous tick are cleared first.
func (s *ButtonSet) Advance(dt time.Duration, frame InputFrame) {
	s.prev = s.now
	s.now += dt
	for _, st := range s.buttons {
		st.pressed = false
		st.released = false
	}
	for _, e := range frame.Events {
		st := s.state(e.Action)
		switch e.Kind {
		case EdgePress:
			if !st.down {
				st.down = true
				st.pressed = true
				st.pressedAt = s.now
			}
		case EdgeRelease:
			if st.down {
				st.down = false
				st.released = true
			}
		}
	}
}

// ReleaseAll lifts every held button on the next Advance.
func (s *ButtonSet) ReleaseAll() InputFrame {
	var f InputFrame
	for a, st := range s.buttons {
		if st.down {
			f.Release(a)
		}
	}
	return f
}

// Now returns the input clock.
func (s *ButtonSet) Now() time.Duration {
	return s.now
}

// Action returns the state of the button bound to a.
func (s *ButtonSet) Action(a Action) Button {
	st, ok := s.buttons[a]
	if !ok {
		return Button{prev: s.prev, now: s.now}
	}
	return Button{
		down:      st.down,
		pressed:   st.pressed,
		released:  st.released,
		pressedAt: st.pressedAt,
		prev:      s.prev,
		now:       s.now,
	}
}

// Button returns the state of a named button. Unknown names are never down.
func (s *ButtonSet) Button(name string) Button {
	a, ok := ActionForButton(name)
	if !ok {
		return Button{prev: s.prev, now: s.now}
	}
	return s.Action(a)
}
