package multiplayer

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Lobby error messages shown to players.
const (
	errAlreadySeated = "Already in a lobby or match"
	errUnknownPreset = "Unknown rules preset"
	errNoLobby       = "Lobby not found"
	errLobbyFull     = "Lobby is full"
	errOwnLobby      = "Cannot join your own lobby"
	errLobbyExpired  = "Lobby expired"
	errMatchSetup    = "Failed to create game"
)

// Lobby is a hosted game waiting for its second player.
type Lobby struct {
	Code      string
	Preset    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

func (l *Lobby) expired(now time.Time, ttl time.Duration) bool {
	return l.Joiner == nil && now.Sub(l.CreatedAt) > ttl
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for a joiner
	CleanupPeriod time.Duration // How often expired lobbies are swept
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// RulesFactory resolves the rules of a preset for a new match.
type RulesFactory func(preset string) (tetris.Rules, error)

// MatchResultSaver persists finished matches. The storage package
// implements it, so multiplayer does not import storage.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match in persistable form.
type MatchResultData struct {
	MatchID        string
	Preset         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// seat records where a session currently is. Exactly one of lobby and
// match is set.
type seat struct {
	lobby string
	match MatchID
}

// Coordinator pairs sessions through lobby codes and owns the running
// matches. Messages are handled one at a time on its own goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	rules       RulesFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	matches map[MatchID]*OnlineMatch
	seats   map[SessionID]seat

	inbox chan CoordinatorMessage
	done  chan struct{}
}

// NewCoordinator creates a coordinator. Call Start before sending to it.
func NewCoordinator(cfg CoordinatorConfig, rules RulesFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:   cfg,
		rules:    rules,
		sessions: sessions,
		logger:   log.Default(),
		lobbies:  make(map[string]*Lobby),
		matches:  make(map[MatchID]*OnlineMatch),
		seats:    make(map[SessionID]seat),
		inbox:    make(chan CoordinatorMessage, 256),
		done:     make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the default logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = l
}

// Start runs the message loop and the lobby sweeper.
func (c *Coordinator) Start() {
	go c.run()
	go c.sweep()
}

// Stop shuts down the coordinator.
func (c *Coordinator) Stop() {
	close(c.done)
}

// Send queues a message. It blocks only while the inbox is full.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.inbox <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) run() {
	for {
		select {
		case msg := <-c.inbox:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.createLobby(m.SessionID, m.Preset)
	case JoinLobbyMsg:
		c.joinLobby(m.SessionID, m.Code)
	case CancelLobbyMsg:
		c.leaveLobby(m.SessionID, m.Code)
	case LeaveLobbyMsg:
		c.leaveLobby(m.SessionID, m.Code)
	case LeaveMatchMsg:
		c.forfeit(m.SessionID, m.MatchID)
	case SnapshotMsg:
		c.mu.RLock()
		match := c.matches[m.MatchID]
		c.mu.RUnlock()
		if match != nil {
			match.SendSnapshot(m.Player, m.Data)
		}
	case SessionDisconnectedMsg:
		c.disconnect(m.SessionID)
	}
}

func (c *Coordinator) createLobby(id SessionID, preset string) {
	session, ok := c.sessions.Get(id)
	if !ok {
		return
	}
	if _, err := c.rules(preset); err != nil {
		session.Send(LobbyErrorEvent{Message: errUnknownPreset})
		return
	}

	c.mu.Lock()
	if _, seated := c.seats[id]; seated {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: errAlreadySeated})
		return
	}
	code := c.freeCode()
	c.lobbies[code] = &Lobby{Code: code, Preset: preset, Host: session, CreatedAt: time.Now()}
	c.seats[id] = seat{lobby: code}
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "preset", preset, "session", id)
	session.Send(LobbyCreatedEvent{Code: code, Preset: preset})
}

func (c *Coordinator) joinLobby(id SessionID, code string) {
	session, ok := c.sessions.Get(id)
	if !ok {
		return
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, seated := c.seats[id]; seated {
		session.Send(LobbyErrorEvent{Message: errAlreadySeated})
		return
	}
	lobby, ok := c.lobbies[code]
	switch {
	case !ok:
		session.Send(LobbyErrorEvent{Message: errNoLobby})
		return
	case lobby.Host.ID() == id:
		session.Send(LobbyErrorEvent{Message: errOwnLobby})
		return
	case lobby.Joiner != nil:
		session.Send(LobbyErrorEvent{Message: errLobbyFull})
		return
	}

	lobby.Joiner = session
	c.seats[id] = seat{lobby: code}

	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: Player1, OpponentID: id})
	session.Send(LobbyJoinedEvent{Code: code, Side: Player2, OpponentID: lobby.Host.ID()})

	c.startMatch(lobby)
}

// startMatch turns a full lobby into a running match. Caller holds mu.
func (c *Coordinator) startMatch(lobby *Lobby) {
	host, joiner := lobby.Host, lobby.Joiner
	delete(c.lobbies, lobby.Code)

	rules, err := c.rules(lobby.Preset)
	if err != nil {
		c.logger.Error("cannot resolve match rules", "preset", lobby.Preset, "err", err)
		delete(c.seats, host.ID())
		delete(c.seats, joiner.ID())
		host.Send(LobbyErrorEvent{Message: errMatchSetup})
		joiner.Send(LobbyErrorEvent{Message: errMatchSetup})
		return
	}

	id := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))
	seed := newSeed()
	match := NewOnlineMatch(id, lobby.Code, lobby.Preset, rules, seed, host, joiner)
	c.matches[id] = match
	c.seats[host.ID()] = seat{match: id}
	c.seats[joiner.ID()] = seat{match: id}

	c.logger.Info("match started", "match", id, "code", lobby.Code, "preset", lobby.Preset, "seed", seed)

	// Rules and seed travel once; every later message is a snapshot.
	start := MatchStartedEvent{MatchID: id, Code: lobby.Code, Preset: lobby.Preset, Seed: seed, Rules: rules}
	start.Side = Player1
	host.Send(start)
	start.Side = Player2
	joiner.Send(start)

	go match.Run(func(result MatchResult) {
		c.finishMatch(id, result)
	})
}

func (c *Coordinator) finishMatch(id MatchID, result MatchResult) {
	c.mu.Lock()
	match, ok := c.matches[id]
	if ok {
		delete(c.matches, id)
		delete(c.seats, match.player1Session.ID())
		delete(c.seats, match.player2Session.ID())
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.logger.Info("match ended", "match", id, "reason", result.Reason, "winner", result.Winner,
		"score1", result.Score1, "score2", result.Score2)

	if c.resultSaver != nil {
		data := resultData(match, result)
		go func() {
			if err := c.resultSaver.SaveMatchResult(data); err != nil {
				c.logger.Warn("cannot save match result", "match", id, "err", err)
			}
		}()
	}

	end := MatchEndedEvent{
		MatchID: id,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(end)
	match.player2Session.Send(end)
}

func resultData(match *OnlineMatch, result MatchResult) MatchResultData {
	var winner string
	switch result.Winner {
	case Player1:
		winner = string(match.player1Session.ID())
	case Player2:
		winner = string(match.player2Session.ID())
	}
	return MatchResultData{
		MatchID:        string(match.ID()),
		Preset:         match.Preset(),
		Player1Session: string(match.player1Session.ID()),
		Player2Session: string(match.player2Session.ID()),
		Score1:         result.Score1,
		Score2:         result.Score2,
		WinnerSession:  winner,
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Duration / time.Second),
	}
}

// leaveLobby removes a session from a lobby. A leaving host closes the
// lobby; a leaving joiner reopens it.
func (c *Coordinator) leaveLobby(id SessionID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, ok := c.lobbies[strings.ToUpper(code)]
	if !ok {
		return
	}
	c.dropFromLobby(lobby, id)
}

// dropFromLobby does the work of leaveLobby. Caller holds mu.
func (c *Coordinator) dropFromLobby(lobby *Lobby, id SessionID) {
	switch {
	case lobby.Host.ID() == id:
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.seats, lobby.Joiner.ID())
		}
		delete(c.lobbies, lobby.Code)
		delete(c.seats, id)
	case lobby.Joiner != nil && lobby.Joiner.ID() == id:
		lobby.Joiner = nil
		delete(c.seats, id)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
	}
}

// forfeit ends a running match in the opponent's favour.
func (c *Coordinator) forfeit(id SessionID, matchID MatchID) {
	c.mu.RLock()
	match := c.matches[matchID]
	c.mu.RUnlock()
	if match != nil {
		match.PlayerDisconnected(id)
	}
}

func (c *Coordinator) disconnect(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.seats[id]
	if !ok {
		return
	}
	if lobby := c.lobbies[s.lobby]; lobby != nil {
		c.dropFromLobby(lobby, id)
	}
	if match := c.matches[s.match]; match != nil {
		match.PlayerDisconnected(id)
	}
}

func (c *Coordinator) sweep() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.expireLobbies(now)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if !lobby.expired(now, c.config.LobbyTimeout) {
			continue
		}
		lobby.Host.Send(LobbyErrorEvent{Message: errLobbyExpired})
		delete(c.seats, lobby.Host.ID())
		delete(c.lobbies, code)
	}
}

// codeAlphabet leaves out characters that read alike (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// freeCode returns a join code no open lobby uses. Caller holds mu.
func (c *Coordinator) freeCode() string {
	for {
		code := joinCode()
		if _, taken := c.lobbies[code]; !taken {
			return code
		}
	}
}

func joinCode() string {
	var b [codeLength]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b[:])
}

// newSeed returns a random match seed.
func newSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano()) //nolint:gosec // seed, not a secret
	}
	return binary.LittleEndian.Uint64(b[:])
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
