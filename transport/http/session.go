package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager manages MCP sessions for Streamable HTTP
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

// Session represents an MCP session
type Session struct {
	ID              string
	Created         time.Time
	LastSeen        time.Time
	ProtocolVersion string
	Initialized     bool
}

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// CreateSession starts a session for a negotiated protocol version and
// returns its id.
func (sm *SessionManager) CreateSession(protocolVersion string) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	id := uuid.NewString()
	now := sm.now()
	sm.sessions[id] = &Session{
		ID:              id,
		Created:         now,
		LastSeen:        now,
		ProtocolVersion: protocolVersion,
	}
	return id
}

// TouchSession refreshes LastSeen and reports whether the session exists.
func (sm *SessionManager) TouchSession(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[sessionID]
	if ok {
		session.LastSeen = sm.now()
	}
	return ok
}

func (sm *SessionManager) HasSession(sessionID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, ok := sm.sessions[sessionID]
	return ok
}

// MarkInitialized records the notifications/initialized message.
func (sm *SessionManager) MarkInitialized(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[sessionID]
	if ok {
		session.Initialized = true
	}
	return ok
}

// GetSession returns a copy of the session.
func (sm *SessionManager) GetSession(sessionID string) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// RemoveSession removes a session
func (sm *SessionManager) RemoveSession(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[sessionID]; !ok {
		return false
	}
	delete(sm.sessions, sessionID)
	return true
}

// CleanupSessions removes sessions idle for longer than timeout and returns
// how many were dropped.
func (sm *SessionManager) CleanupSessions(timeout time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	removed := 0
	for sessionID, session := range sm.sessions {
		if now.Sub(session.LastSeen) > timeout {
			delete(sm.sessions, sessionID)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
