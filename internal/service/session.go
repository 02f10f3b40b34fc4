package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"homeprice/internal/logger"
)

// FormFactory builds the form of a new session
type FormFactory func() *PredictionForm

// SessionStore keeps one PredictionForm per browser session in memory.
// Sessions idle for longer than the TTL are dropped by Sweep.
type SessionStore struct {
	newForm FormFactory
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	form     *PredictionForm
	lastSeen time.Time
}

// NewSessionStore creates a new session store
func NewSessionStore(newForm FormFactory, ttl time.Duration) *SessionStore {
	return &SessionStore{
		newForm:  newForm,
		ttl:      ttl,
		now:      time.Now,
		log:      logger.New("sessions"),
		sessions: make(map[string]*session),
	}
}

// Get returns the form of session id. Unknown or malformed ids start a new
// session; created is true and sessionID holds the new id in that case.
func (s *SessionStore) Get(id string) (form *PredictionForm, sessionID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess.form, id, false
	}

	sessionID = uuid.NewString()
	sess := &session{form: s.newForm(), lastSeen: now}
	s.sessions[sessionID] = sess
	s.log.Debugf("started session %s", sessionID)
	return sess.form, sessionID, true
}

// Lookup returns the form of an existing session without starting one
func (s *SessionStore) Lookup(id string) (*PredictionForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.form, true
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps periodically until ctx is canceled.
func (s *SessionStore) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Infof("dropped %d idle sessions", n)
			}
		}
	}
}
