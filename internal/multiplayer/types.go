// Package multiplayer runs versus matches between SSH sessions.
// Each side simulates its own game and streams encoded snapshots; the
// coordinator pairs sessions through lobby codes and relays the snapshots
// to the opponent, last snapshot wins.
package multiplayer

// PlayerID is a side of a match. Player1 hosts, Player2 joins.
type PlayerID uint8

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "none"
	}
}

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a match.
type MatchID string

// MatchMode defines how a game is played.
type MatchMode int

const (
	// MatchModeSolo is a local single-player game.
	MatchModeSolo MatchMode = iota

	// MatchModeVersus pits two sessions against each other.
	MatchModeVersus
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeVersus:
		return "Versus"
	default:
		return "Unknown"
	}
}
