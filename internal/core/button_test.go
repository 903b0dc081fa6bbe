package core

import (
	"testing"
	"time"
)

const tick = 10 * time.Millisecond

func press(a Action) InputFrame {
	var f InputFrame
	f.Press(a)
	return f
}

func release(a Action) InputFrame {
	var f InputFrame
	f.Release(a)
	return f
}

func TestButtonEdges(t *testing.T) {
	s := NewButtonSet()

	s.Advance(tick, press(ActionLeft))
	b := s.Button(ButtonLeft)
	if !b.Pressed() || !b.Down() || b.Released() {
		t.Fatalf("after press: pressed=%v down=%v released=%v", b.Pressed(), b.Down(), b.Released())
	}

	s.Advance(tick, NewInputFrame())
	b = s.Button(ButtonLeft)
	if b.Pressed() || !b.Down() {
		t.Errorf("held: pressed=%v down=%v, expected false/true", b.Pressed(), b.Down())
	}

	s.Advance(tick, release(ActionLeft))
	b = s.Button(ButtonLeft)
	if !b.Released() || b.Down() {
		t.Errorf("after release: released=%v down=%v, expected true/false", b.Released(), b.Down())
	}
}

func TestButtonPressAndReleaseSameTick(t *testing.T) {
	s := NewButtonSet()
	var f InputFrame
	f.Press(ActionHardDrop)
	f.Release(ActionHardDrop)
	s.Advance(tick, f)

	b := s.Button(ButtonHardDrop)
	if !b.Pressed() || !b.Released() || b.Down() {
		t.Errorf("tap: pressed=%v released=%v down=%v", b.Pressed(), b.Released(), b.Down())
	}
}

func TestButtonPressedRepeatWithDelay(t *testing.T) {
	s := NewButtonSet()
	delay := 50 * time.Millisecond
	interval := 20 * time.Millisecond

	var fired []time.Duration
	s.Advance(tick, press(ActionRight))
	for range 12 {
		b := s.Button(ButtonRight)
		if b.PressedRepeatWithDelay(delay, interval) {
			fired = append(fired, s.Now())
		}
		// Asking again in the same tick must not fire twice.
		if b.PressedRepeatWithDelay(delay, interval) != (len(fired) > 0 && fired[len(fired)-1] == s.Now()) {
			t.Fatalf("query at %v is not idempotent", s.Now())
		}
		s.Advance(tick, NewInputFrame())
	}

	// Pressed at 10ms: fires at press, after the delay (60ms), then every 20ms.
	expected := []time.Duration{10, 60, 80, 100, 120}
	if len(fired) != len(expected) {
		t.Fatalf("fired at %v, expected %d firings", fired, len(expected))
	}
	for i, ms := range expected {
		if fired[i] != ms*time.Millisecond {
			t.Errorf("firing %d at %v, expected %v", i, fired[i], ms*time.Millisecond)
		}
	}
}

func TestButtonPressedRepeat(t *testing.T) {
	s := NewButtonSet()
	count := 0
	s.Advance(tick, press(ActionSoftDrop))
	for range 10 {
		if s.Button(ButtonSoftDrop).PressedRepeat(30 * time.Millisecond) {
			count++
		}
		s.Advance(tick, NewInputFrame())
	}
	// Press at 10ms then repeats at 40, 70, 100ms.
	if count != 4 {
		t.Errorf("PressedRepeat fired %d times, expected 4", count)
	}
}

func TestButtonUnknownName(t *testing.T) {
	s := NewButtonSet()
	s.Advance(tick, press(ActionLeft))
	if s.Button("jump").Down() {
		t.Error("unknown button should never be down")
	}
}

func TestButtonSetReleaseAll(t *testing.T) {
	s := NewButtonSet()
	var f InputFrame
	f.Press(ActionLeft)
	f.Press(ActionHold)
	s.Advance(tick, f)
	s.Advance(tick, s.ReleaseAll())

	if s.Button(ButtonLeft).Down() || s.Button(ButtonHold).Down() {
		t.Error("ReleaseAll should lift every held button")
	}
}
