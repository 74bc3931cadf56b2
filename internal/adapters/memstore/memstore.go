// Package memstore provides process-lifetime storage, the ephemeral session scope.
package memstore

import (
	"context"
	"sync"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

var (
	_ ports.SessionStorage = (*SessionStorage)(nil)
	_ ports.KeyValueStore  = (*KeyValueStore)(nil)
)

// SessionStorage keeps one persisted session in memory. Safe for concurrent use.
type SessionStorage struct {
	mu   sync.RWMutex
	sess *domainauth.PersistedSession
}

// NewSessionStorage returns an empty in-memory session scope.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{}
}

func (s *SessionStorage) Load(_ context.Context) (domainauth.PersistedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return domainauth.PersistedSession{}, ports.ErrNoSession
	}
	out := *s.sess
	if s.sess.User != nil {
		u := *s.sess.User
		out.User = &u
	}
	return out, nil
}

func (s *SessionStorage) Save(_ context.Context, sess domainauth.PersistedSession) error {
	cp := sess
	if sess.User != nil {
		u := *sess.User
		cp.User = &u
	}
	s.mu.Lock()
	s.sess = &cp
	s.mu.Unlock()
	return nil
}

func (s *SessionStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
	return nil
}

// KeyValueStore is an in-memory ports.KeyValueStore.
type KeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKeyValueStore returns an empty store.
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{data: make(map[string][]byte)}
}

func (s *KeyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *KeyValueStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
