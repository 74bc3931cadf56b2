// Package ports defines interfaces (hexagonal ports) for session persistence and UI side effects.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
)

var (
	// ErrNoSession is returned by SessionStorage.Load when the scope holds nothing.
	ErrNoSession = errors.New("no persisted session")
	// ErrCorruptSession is returned by SessionStorage.Load when the stored data cannot be decoded.
	ErrCorruptSession = errors.New("corrupt persisted session")
)

// SessionStorage persists a session in one storage scope.
// Load returns ErrNoSession for an empty scope and wraps ErrCorruptSession for
// undecodable data. Any other error is an I/O failure.
type SessionStorage interface {
	Load(ctx context.Context) (domainauth.PersistedSession, error)
	Save(ctx context.Context, sess domainauth.PersistedSession) error
	Clear(ctx context.Context) error
}

// KeyValueStore persists small JSON documents keyed by name.
// Get returns (nil, nil) for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Redirector sends the user back to the login entry point after the session expired.
type Redirector interface {
	RedirectToLogin(ctx context.Context)
}

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, level NoticeLevel, message string)
}

// RemoteAuth is the backend side of authentication used by the session manager.
type RemoteAuth interface {
	Login(ctx context.Context, in domainauth.LoginInput) (domainauth.LoginResult, error)
	Register(ctx context.Context, in domainauth.RegisterInput) error
	UpdateUserProfile(ctx context.Context, upd domainauth.ProfileUpdate) error
}
