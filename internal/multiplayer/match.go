package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Score1   int
	Score2   int
	Duration time.Duration // Longest logical game clock of the two sides
}

// sideState is the last decoded state reported by one side.
type sideState struct {
	score     uint32
	toppedOut bool
	clock     time.Duration
	received  bool
}

type snapshotIn struct {
	player PlayerID
	data   []byte
}

// OnlineMatch relays snapshots between the two sides of a versus match and
// decides the winner. It does not simulate; each side runs its own engine.
type OnlineMatch struct {
	id     MatchID
	code   string
	preset string
	seed   uint64
	rules  tetris.Rules

	player1Session SessionHandle
	player2Session SessionHandle

	snapshots chan snapshotIn
	sides     [3]sideState // indexed by PlayerID
	invalid   int          // snapshots that failed to decode

	done           chan struct{}
	doneOnce       sync.Once
	disconnectChan chan SessionID
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(
	id MatchID,
	code string,
	preset string,
	rules tetris.Rules,
	seed uint64,
	p1Session, p2Session SessionHandle,
) *OnlineMatch {
	return &OnlineMatch{
		id:             id,
		code:           code,
		preset:         preset,
		seed:           seed,
		rules:          rules,
		player1Session: p1Session,
		player2Session: p2Session,
		snapshots:      make(chan snapshotIn, 64),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Preset returns the rules preset name.
func (m *OnlineMatch) Preset() string {
	return m.preset
}

// Seed returns the seed both sides play with.
func (m *OnlineMatch) Seed() uint64 {
	return m.seed
}

// SendSnapshot queues a side's encoded snapshot for relay.
// Non-blocking; when the queue is full the snapshot is dropped, the next
// one supersedes it anyway.
func (m *OnlineMatch) SendSnapshot(player PlayerID, data []byte) {
	select {
	case m.snapshots <- snapshotIn{player: player, data: data}:
	default:
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run relays snapshots until one side tops out or disconnects.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	// Monitor session disconnects
	go m.monitorSessions()

	for {
		select {
		case in := <-m.snapshots:
			if result, done := m.relay(in); done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

// relay validates a snapshot, forwards it to the opponent and checks for
// the end of the match.
func (m *OnlineMatch) relay(in snapshotIn) (MatchResult, bool) {
	if in.player != Player1 && in.player != Player2 {
		return MatchResult{}, false
	}
	snap, err := tetris.DecodeSnapshot(in.data)
	if err != nil {
		m.invalid++
		return MatchResult{}, false
	}

	m.sides[in.player] = sideState{
		score:     snap.CurrentScore,
		toppedOut: snap.HasToppedOut,
		clock:     time.Duration(snap.Timestamp),
		received:  true,
	}

	m.sessionFor(in.player.Opponent()).Send(SnapshotEvent{
		MatchID: m.id,
		From:    in.player,
		Data:    in.data,
	})

	if snap.HasToppedOut {
		return m.result(MatchEndReasonCompleted, in.player.Opponent()), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) sessionFor(p PlayerID) SessionHandle {
	if p == Player1 {
		return m.player1Session
	}
	return m.player2Session
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Winner:   winner,
		Score1:   int(m.sides[Player1].score),
		Score2:   int(m.sides[Player2].score),
		Duration: max(m.sides[Player1].clock, m.sides[Player2].clock),
	}
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// InvalidSnapshots returns how many snapshots failed to decode. Only
// meaningful once Run has returned.
func (m *OnlineMatch) InvalidSnapshots() int {
	return m.invalid
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
