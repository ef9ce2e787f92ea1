package conversation

import "sync"

type State int

const (
	StateIdle State = iota
	StateAwaitingVideo
	StateAwaitingIdentifier
)

func (s State) String() string {
	switch s {
	case StateAwaitingVideo:
		return "awaiting_video"
	case StateAwaitingIdentifier:
		return "awaiting_identifier"
	default:
		return "idle"
	}
}

// Session is the upload flow position of one operator in one chat together
// with whatever it has captured so far.
type Session struct {
	State            State
	FileID           string
	Caption          string
	ChannelMessageID int
	DeleteMode       bool
}

type Key struct {
	ChatID int64
	UserID int64
}

// Store keeps sessions in memory. Nothing survives a restart.
type Store interface {
	// Get returns the zero Session (idle) for unknown keys.
	Get(key Key) Session
	Set(key Key, session Session)
	Clear(key Key)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[Key]Session
}

func (m *memoryStore) Get(key Key) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[key]
}

func (m *memoryStore) Set(key Key, session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.State == StateIdle {
		delete(m.sessions, key)
		return
	}
	m.sessions[key] = session
}

func (m *memoryStore) Clear(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[Key]Session),
	}
}
