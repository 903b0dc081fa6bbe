package core

import "time"

// RuntimeConfig is what the front-end tells a game on Reset.
type RuntimeConfig struct {
	ScreenW, ScreenH int
	TickRate         int    // Steps per second
	Seed             uint64 // 0 asks the front-end to pick one
}

// DefaultConfig is an 80×24 terminal at 60 steps per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
}

// TickDuration is the logical time of one step. A non-positive rate
// counts as 60.
func (c RuntimeConfig) TickDuration() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// GameState is the scoreboard view of a game.
type GameState struct {
	Score, Lines, Level int
	GameOver, Paused    bool
}

// StepResult reports one step. Changed is set when the board moved.
type StepResult struct {
	State   GameState
	Changed bool
}
