package multiplayer

import "github.com/vovakirdan/tui-tetris/internal/tetris"

// SessionEvent is anything the coordinator or a match pushes to a session.
type SessionEvent interface {
	sessionEvent()
}

// Lobby events.
type (
	// LobbyCreatedEvent hands the host its join code.
	LobbyCreatedEvent struct {
		Code   string
		Preset string
	}

	// LobbyErrorEvent reports a refused lobby request.
	LobbyErrorEvent struct {
		Message string
	}

	// LobbyJoinedEvent tells each side which seat it took.
	LobbyJoinedEvent struct {
		Code       string
		Side       PlayerID
		OpponentID SessionID
	}

	// LobbyPlayerLeftEvent tells the host its joiner is gone.
	LobbyPlayerLeftEvent struct {
		Code string
	}
)

// Match events.
type (
	// MatchStartedEvent is the only message carrying rules and seed; both
	// sides build their games from it.
	MatchStartedEvent struct {
		MatchID MatchID
		Side    PlayerID
		Code    string
		Preset  string
		Seed    uint64
		Rules   tetris.Rules
	}

	// SnapshotEvent is the opponent's latest encoded board.
	SnapshotEvent struct {
		MatchID MatchID
		From    PlayerID
		Data    []byte
	}

	// MatchEndedEvent closes a match. Winner is NoPlayer on a draw.
	MatchEndedEvent struct {
		MatchID MatchID
		Reason  MatchEndReason
		Winner  PlayerID
		Score1  int
		Score2  int
	}
)

func (LobbyCreatedEvent) sessionEvent()    {}
func (LobbyErrorEvent) sessionEvent()      {}
func (LobbyJoinedEvent) sessionEvent()     {}
func (LobbyPlayerLeftEvent) sessionEvent() {}
func (MatchStartedEvent) sessionEvent()    {}
func (SnapshotEvent) sessionEvent()        {}
func (MatchEndedEvent) sessionEvent()      {}

// MatchEndReason says how a match or a half-filled lobby ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota
	MatchEndReasonDisconnect
	MatchEndReasonHostLeft
)

var matchEndReasons = [...]string{
	MatchEndReasonCompleted:  "Match completed",
	MatchEndReasonDisconnect: "Opponent disconnected",
	MatchEndReasonHostLeft:   "Host left",
}

func (r MatchEndReason) String() string {
	if r < 0 || int(r) >= len(matchEndReasons) {
		return "Unknown"
	}
	return matchEndReasons[r]
}
