package tetris

import "time"

// LockDelayState is the countdown of the active piece. It is rebuilt from
// the rules on every spawn.
type LockDelayState struct {
	Kind          LockDelayKind
	Remaining     time.Duration
	RotationsLeft uint8
	MovementsLeft uint8
}

// NewLockDelayState returns a fresh countdown for rule.
func NewLockDelayState(rule LockDelayRule) LockDelayState {
	s := LockDelayState{Kind: rule.Kind}
	if rule.Kind == LockDelayNone {
		return s
	}
	s.Remaining = rule.Duration
	if rule.Kind == LockDelayMoveReset {
		s.RotationsLeft = rule.MaxRotations
		s.MovementsLeft = rule.MaxMovements
	}
	return s
}

// pieceActivity holds what the piece did during the previous tick.
type pieceActivity struct {
	moved   bool
	rotated bool
	stepped bool
}

// Advance runs one tick of the countdown and reports whether the piece
// must lock now.
func (s *LockDelayState) Advance(rule LockDelayRule, dt time.Duration, locking bool, act pieceActivity) bool {
	switch s.Kind {
	case LockDelayNone:
		return false
	case LockDelayEntryReset:
		if locking {
			s.decrement(dt)
		}
	case LockDelayStepReset:
		if act.stepped {
			s.Remaining = rule.Duration
		} else if locking {
			s.decrement(dt)
		}
	case LockDelayMoveReset:
		if !locking {
			return false
		}
		switch {
		case act.rotated && s.RotationsLeft > 0:
			s.RotationsLeft--
			s.Remaining = rule.Duration
		case act.moved && !act.rotated && s.MovementsLeft > 0:
			s.MovementsLeft--
			s.Remaining = rule.Duration
		default:
			s.decrement(dt)
		}
	}
	return locking && s.Remaining == 0
}

func (s *LockDelayState) decrement(dt time.Duration) {
	s.Remaining = max(s.Remaining-dt, 0)
}
