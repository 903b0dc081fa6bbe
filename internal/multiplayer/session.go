package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches reach a connected
// player. Send must never block.
type SessionHandle interface {
	ID() SessionID
	Send(evt SessionEvent)
	Done() <-chan struct{}
}

// ChannelSession delivers events over channels read by a TUI program.
//
// Control events queue in arrival order and are dropped when the queue is
// full. Snapshots use a one-slot mailbox: an unread snapshot is replaced by
// a newer one, so a slow reader always sees the latest opponent board.
type ChannelSession struct {
	id SessionID

	events chan SessionEvent

	mailboxMu sync.Mutex
	mailbox   chan SnapshotEvent

	closeOnce sync.Once
	closed    chan struct{}
}

// NewChannelSession returns a session whose control queue holds queueLen
// events (16 when queueLen < 1).
func NewChannelSession(id SessionID, queueLen int) *ChannelSession {
	if queueLen < 1 {
		queueLen = 16
	}
	return &ChannelSession{
		id:      id,
		events:  make(chan SessionEvent, queueLen),
		mailbox: make(chan SnapshotEvent, 1),
		closed:  make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

func (s *ChannelSession) Done() <-chan struct{} { return s.closed }

// Events is the control event queue.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

// Snapshots is the opponent snapshot mailbox.
func (s *ChannelSession) Snapshots() <-chan SnapshotEvent { return s.mailbox }

// Send is a no-op after Close.
func (s *ChannelSession) Send(evt SessionEvent) {
	if s.isClosed() {
		return
	}
	if snap, ok := evt.(SnapshotEvent); ok {
		s.post(snap)
		return
	}
	select {
	case s.events <- evt:
	default:
	}
}

func (s *ChannelSession) post(snap SnapshotEvent) {
	s.mailboxMu.Lock()
	defer s.mailboxMu.Unlock()
	select {
	case <-s.mailbox:
	default:
	}
	s.mailbox <- snap
}

func (s *ChannelSession) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// Close ends the session. It may be called more than once.
func (s *ChannelSession) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// SessionRegistry maps session IDs to live sessions.
type SessionRegistry struct {
	mu   sync.RWMutex
	byID map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{byID: make(map[SessionID]SessionHandle)}
}

func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	r.byID[s.ID()] = s
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}

func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}
