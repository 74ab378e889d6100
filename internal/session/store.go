package session

import (
	"sync"
	"time"

	"portfolio_advisor/internal/chat"

	"github.com/google/uuid"
)

// Store maps session identifiers to conversations. Each conversation is
// owned by exactly one session; the store's lock only guards the map, never
// a conversation's internals.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  func() *chat.Conversation
}

type entry struct {
	conv     *chat.Conversation
	lastSeen time.Time
}

// NewStore creates a store that builds conversations with the given factory.
func NewStore(factory func() *chat.Conversation) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		factory:  factory,
	}
}

// GetOrCreate returns the conversation for id, creating it if needed. An
// empty id allocates a fresh session and returns its generated identifier.
func (s *Store) GetOrCreate(id string) (string, *chat.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{conv: s.factory()}
		s.sessions[id] = e
	}
	e.lastSeen = time.Now()
	return id, e.conv
}

// Get returns an existing session's conversation.
func (s *Store) Get(id string) (*chat.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.conv, true
}

// Delete drops a session and its conversation.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// PruneIdle removes sessions idle for longer than maxIdle and reports how
// many were dropped.
func (s *Store) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	var dropped int
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
