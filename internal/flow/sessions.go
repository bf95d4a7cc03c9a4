// Package flow implements the per-user conversation state machine that
// drives questionnaire filling: consent gating, question sequencing, and
// submission of completed forms to the tabular sink.
package flow

import (
	"sync"
)

// State identifies the user's position in the conversation state machine.
type State int

const (
	// StateNone means no conversation flow is active for the user.
	StateNone State = iota
	// StateAwaitingConsent means the user was asked for privacy-policy
	// consent and the next message is interpreted as the answer.
	StateAwaitingConsent
	// StateInForm means a questionnaire is in progress and the next message
	// answers the question at the current cursor.
	StateInForm
)

// Session is the transient per-user progress record. It exists only while
// the user is inside a flow (consent prompt or questionnaire) and is lost
// on process restart by design.
type Session struct {
	State   State
	FormID  string
	Cursor  int
	Answers map[string]string
}

// Sessions stores per-user sessions. The interface is small so a durable
// implementation can replace the in-memory one without touching the
// engine's transition logic.
type Sessions interface {
	// Get returns the session for the user, or nil if none is active.
	Get(userID int64) *Session

	// Put stores or replaces the session for the user.
	Put(userID int64, session *Session)

	// Delete removes the session for the user, if any.
	Delete(userID int64)
}

// memorySessions is the in-memory Sessions implementation. State is
// process-local and intentionally not persisted.
type memorySessions struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemorySessions returns an empty in-memory session store.
func NewMemorySessions() Sessions {
	return &memorySessions{
		sessions: make(map[int64]*Session),
	}
}

func (m *memorySessions) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *memorySessions) Put(userID int64, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = session
}

func (m *memorySessions) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
