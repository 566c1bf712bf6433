package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("cart session not found")

const DefaultSessionTTL = 24 * time.Hour

// Persister keeps cart snapshots outside the process.
type Persister interface {
	Load(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Store(ctx context.Context, id uuid.UUID, s Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type session struct {
	cart     *Cart
	lastSeen time.Time
}

// SessionStore owns every live cart, keyed by session id.
type SessionStore struct {
	sessions  map[uuid.UUID]*session
	mu        sync.RWMutex
	ttl       time.Duration
	persister Persister
	now       func() time.Time
}

// NewSessionStore creates a store that forgets carts idle for longer than
// ttl. persister may be nil, in which case carts live only in memory.
func NewSessionStore(ttl time.Duration, persister Persister) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions:  make(map[uuid.UUID]*session),
		ttl:       ttl,
		persister: persister,
		now:       time.Now,
	}
}

// CleanupIdle removes sessions not used within the TTL.
func (s *SessionStore) CleanupIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Create starts a new session with an empty cart.
func (s *SessionStore) Create() (uuid.UUID, *Cart) {
	// Clean up idle sessions on each new creation
	s.CleanupIdle()

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	c := New()
	s.sessions[id] = &session{cart: c, lastSeen: s.now()}
	return id, c
}

// Get returns the cart for id, loading it from the persister when it is not
// held in memory.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*Cart, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		return sess.cart, nil
	}
	s.mu.Unlock()

	if s.persister == nil {
		return nil, ErrSessionNotFound
	}

	snap, err := s.persister.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have restored it meanwhile.
	if sess, ok := s.sessions[id]; ok {
		return sess.cart, nil
	}
	c := New()
	c.Restore(snap)
	s.sessions[id] = &session{cart: c, lastSeen: s.now()}
	return c, nil
}

// Save writes the cart snapshot through to the persister, if any.
func (s *SessionStore) Save(ctx context.Context, id uuid.UUID) error {
	if s.persister == nil {
		return nil
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	if err := s.persister.Store(ctx, id, sess.cart.Snapshot(), s.ttl); err != nil {
		return fmt.Errorf("store cart %s: %w", id, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Delete(ctx, id); err != nil {
			log.Printf("Failed to delete persisted cart %s: %v", id, err)
		}
	}
}

// Len reports the number of sessions held in memory.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
