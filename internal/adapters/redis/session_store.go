// Package redis provides Redis-backed durable storage for portal sessions and progress documents.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

var _ ports.SessionStorage = (*SessionStore)(nil)

// SessionStore keeps one profile's session under <prefix><profile>.
// When the session carries an expiry the key gets a matching TTL.
type SessionStore struct {
	client  redis.UniversalClient
	key     string
	expires func(domainauth.PersistedSession) time.Time
}

// SessionStoreOptions groups construction parameters for SessionStore.
type SessionStoreOptions struct {
	// Prefix defaults to "portal:session:".
	Prefix string
	// Profile distinguishes several logins sharing one Redis; defaults to "default".
	Profile string
	// Expiry reports when a session stops being usable; zero means no TTL.
	Expiry func(domainauth.PersistedSession) time.Time
}

// NewSessionStore creates a Redis-based session scope.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "portal:session:"
	}
	profile := opts.Profile
	if profile == "" {
		profile = "default"
	}
	return &SessionStore{
		client:  client,
		key:     prefix + profile,
		expires: opts.Expiry,
	}
}

// Key returns the Redis key holding the session.
func (s *SessionStore) Key() string { return s.key }

func (s *SessionStore) Save(ctx context.Context, sess domainauth.PersistedSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var ttl time.Duration
	if s.expires != nil {
		if exp := s.expires(sess); !exp.IsZero() {
			ttl = time.Until(exp)
			if ttl <= 0 {
				return errors.New("session is expired")
			}
		}
	}

	return s.client.Set(ctx, s.key, data, ttl).Err()
}

func (s *SessionStore) Load(ctx context.Context) (domainauth.PersistedSession, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.PersistedSession{}, ports.ErrNoSession
		}
		return domainauth.PersistedSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.PersistedSession
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.PersistedSession{}, fmt.Errorf("%w: %w", ports.ErrCorruptSession, unmarshalErr)
	}
	return sess, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
