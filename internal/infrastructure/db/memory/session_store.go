// Package memory provides the default in-process session store.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

const (
	defaultSessionTTL = 12 * time.Hour
	cleanupInterval   = 10 * time.Minute
)

// SessionStore keeps sessions in a process-local cache with a sliding expiry.
// Stored values are copies, so callers never share a *domain.Session.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{cache: cache.New(ttl, cleanupInterval), ttl: ttl}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := clone(v.(domain.Session))
	return &sess, nil
}

func (s *SessionStore) Create(_ context.Context, sess *domain.Session) error {
	s.cache.Set(sess.ID, clone(*sess), s.ttl)
	return nil
}

func (s *SessionStore) Save(_ context.Context, sess *domain.Session) error {
	if err := s.cache.Replace(sess.ID, clone(*sess), s.ttl); err != nil {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func clone(sess domain.Session) domain.Session {
	if sess.Conversation != nil {
		sess.Conversation = append([]domain.Turn(nil), sess.Conversation...)
	}
	return sess
}
