package multiplayer

// CoordinatorMessage is a request from a session, handled in order on the
// coordinator goroutine.
type CoordinatorMessage interface {
	coordinatorMessage()
}

type (
	// CreateLobbyMsg opens a lobby for a rules preset.
	CreateLobbyMsg struct {
		SessionID SessionID
		Preset    string
	}

	// JoinLobbyMsg takes the free seat of a lobby.
	JoinLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	// CancelLobbyMsg closes the sender's own lobby.
	CancelLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	// LeaveLobbyMsg gives up a joined seat.
	LeaveLobbyMsg struct {
		SessionID SessionID
		Code      string
	}

	// LeaveMatchMsg forfeits a running match.
	LeaveMatchMsg struct {
		SessionID SessionID
		MatchID   MatchID
	}

	// SnapshotMsg carries one side's encoded board for relay.
	SnapshotMsg struct {
		MatchID MatchID
		Player  PlayerID
		Data    []byte
	}

	// SessionDisconnectedMsg reports a closed connection.
	SessionDisconnectedMsg struct {
		SessionID SessionID
	}
)

func (CreateLobbyMsg) coordinatorMessage()         {}
func (JoinLobbyMsg) coordinatorMessage()           {}
func (CancelLobbyMsg) coordinatorMessage()         {}
func (LeaveLobbyMsg) coordinatorMessage()          {}
func (LeaveMatchMsg) coordinatorMessage()          {}
func (SnapshotMsg) coordinatorMessage()            {}
func (SessionDisconnectedMsg) coordinatorMessage() {}
