package pos

import (
	"sync"

	"go.uber.org/zap"
)

// Store owns the live sessions, one per terminal. Sessions are in-memory
// only; a restart drops them, and any persisted state lives in the PENDING
// invoices they were checked out to.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *zap.Logger
}

// NewStore creates an empty session store.
func NewStore(log *zap.Logger) *Store {
	return &Store{sessions: make(map[string]*Session), log: log}
}

// Session returns the terminal's session, creating it on first use.
func (s *Store) Session(terminalID string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[terminalID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[terminalID]; ok {
		return sess
	}
	sess = NewSession(terminalID, s.log)
	s.sessions[terminalID] = sess
	return sess
}

// Drop discards a terminal's session entirely.
func (s *Store) Drop(terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, terminalID)
}
