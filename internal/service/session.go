package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

// User-facing messages emitted by the session manager.
const (
	msgLoginFailed    = "登录失败，请重试"
	msgRegisterFailed = "注册失败，请重试"
	msgRegistered     = "注册成功！"
	msgProfileUpdated = "个人信息更新成功"
	msgUpdateFailed   = "更新失败"
	msgSessionExpired = "登录已过期，请重新登录"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Remote ports.RemoteAuth
	// Durable holds sessions created with RememberMe.
	Durable ports.SessionStorage
	// Ephemeral holds all other sessions and lives no longer than the process or shell.
	Ephemeral  ports.SessionStorage
	Redirector ports.Redirector
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Now        func() time.Time
}

// SessionManager owns the current credential and user profile.
//
// At any time exactly one of three states holds: no session, a session persisted
// in the durable scope, or a session persisted in the ephemeral scope.
// Reads take mu; mutations are serialized by writeMu and never hold mu across
// remote calls.
type SessionManager struct {
	remote     ports.RemoteAuth
	durable    ports.SessionStorage
	ephemeral  ports.SessionStorage
	redirector ports.Redirector
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time

	writeMu sync.Mutex

	mu    sync.RWMutex
	token *oauth2.Token
	user  *domainauth.UserProfile
	scope domainauth.Scope
	// initialized is set once Initialize has run; storage is no longer a token source after that.
	initialized bool
	// expired is set by Expire and cleared when a new token is installed.
	expired bool
}

// NewSessionManager constructs a SessionManager in the unauthenticated state.
// Call Initialize to restore a persisted session.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		remote:     opts.Remote,
		durable:    opts.Durable,
		ephemeral:  opts.Ephemeral,
		redirector: opts.Redirector,
		notifier:   opts.Notifier,
		logger:     logger.With("component", "session"),
		now:        now,
	}
}

// Initialize restores a persisted session, preferring the durable scope.
// Corrupt, incomplete or expired data is discarded from both scopes and the
// manager stays unauthenticated; such data never produces an error. A storage
// read failure leaves the stored data in place and the manager unauthenticated.
func (m *SessionManager) Initialize(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	defer m.markInitialized()

	for _, candidate := range []struct {
		scope   domainauth.Scope
		storage ports.SessionStorage
	}{
		{domainauth.ScopeDurable, m.durable},
		{domainauth.ScopeEphemeral, m.ephemeral},
	} {
		if candidate.storage == nil {
			continue
		}
		sess, err := candidate.storage.Load(ctx)
		if errors.Is(err, ports.ErrNoSession) {
			continue
		}
		if err != nil && !errors.Is(err, ports.ErrCorruptSession) {
			m.logger.WarnContext(ctx, "read persisted session", "scope", candidate.scope, "error", err)
			m.setState(nil, nil, domainauth.ScopeNone)
			return nil
		}
		if err != nil || !sess.Valid() || tokenExpired(sess.Token, m.now()) {
			m.logger.WarnContext(ctx, "discarding persisted session",
				"scope", candidate.scope,
				"error", err,
				"valid", err == nil && sess.Valid(),
			)
			m.clearStorage(ctx)
			m.setState(nil, nil, domainauth.ScopeNone)
			return nil
		}

		if candidate.scope == domainauth.ScopeDurable && m.ephemeral != nil {
			if cerr := m.ephemeral.Clear(ctx); cerr != nil {
				m.logger.WarnContext(ctx, "clear ephemeral session", "error", cerr)
			}
		}
		user := *sess.User
		m.setState(newToken(sess.Token, sess.RefreshToken), &user, candidate.scope)
		m.logger.DebugContext(ctx, "session restored", "scope", candidate.scope, "username", user.Username)
		return nil
	}

	m.setState(nil, nil, domainauth.ScopeNone)
	return nil
}

// Login authenticates against the backend and persists the session in the scope
// chosen by in.RememberMe. On failure the previous state is left untouched.
func (m *SessionManager) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.UserProfile, error) {
	if err := validatePayload(in); err != nil {
		return domainauth.UserProfile{}, err
	}

	res, err := m.remote.Login(ctx, in)
	if err != nil {
		return domainauth.UserProfile{}, apperrors.WithFallback(err, msgLoginFailed)
	}
	profile := res.Profile()
	if strings.TrimSpace(res.Access) == "" || !profile.Complete() {
		return domainauth.UserProfile{}, &apperrors.DomainError{
			Code:    apperrors.ErrCodeDecode,
			Message: msgLoginFailed,
			Cause:   errors.New("login response lacks token or profile"),
		}
	}

	scope := domainauth.ScopeEphemeral
	if in.RememberMe {
		scope = domainauth.ScopeDurable
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.clearStorage(ctx)
	sess := domainauth.PersistedSession{
		Token:        res.Access,
		RefreshToken: res.Refresh,
		User:         &profile,
		SavedAt:      m.now().UTC(),
	}
	if err := m.storageFor(scope).Save(ctx, sess); err != nil {
		m.clearStorage(ctx)
		m.setState(nil, nil, domainauth.ScopeNone)
		return domainauth.UserProfile{}, &apperrors.DomainError{
			Code:    apperrors.ErrCodeTransport,
			Message: msgLoginFailed,
			Cause:   fmt.Errorf("persist session: %w", err),
		}
	}

	m.setState(newToken(res.Access, res.Refresh), &profile, scope)
	m.logger.InfoContext(ctx, "logged in", "username", profile.Username, "role", profile.Role, "scope", scope)
	return profile, nil
}

// Register creates an account. The current session is not affected.
func (m *SessionManager) Register(ctx context.Context, in domainauth.RegisterInput) error {
	if err := validatePayload(in); err != nil {
		return err
	}
	if err := m.remote.Register(ctx, in); err != nil {
		return apperrors.WithFallback(err, msgRegisterFailed)
	}
	m.notify(ctx, ports.NoticeSuccess, msgRegistered)
	return nil
}

// UpdateProfile updates the editable profile fields. It does nothing without a session.
// Only supplied, non-empty fields change; the session is rewritten in the scope holding it.
func (m *SessionManager) UpdateProfile(ctx context.Context, upd domainauth.ProfileUpdate) error {
	if !m.IsAuthenticated() {
		return nil
	}
	if err := validatePayload(upd); err != nil {
		return err
	}

	if err := m.remote.UpdateUserProfile(ctx, upd); err != nil {
		m.notify(ctx, ports.NoticeError, msgUpdateFailed)
		return apperrors.WithFallback(err, msgUpdateFailed)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	tok, user, scope := m.token, m.user, m.scope
	m.mu.RUnlock()
	if tok == nil || user == nil {
		// Logged out while the request was in flight.
		return nil
	}

	updated := upd.Apply(*user)
	if storage := m.storageFor(scope); storage != nil {
		sess := domainauth.PersistedSession{
			Token:        tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			User:         &updated,
			SavedAt:      m.now().UTC(),
		}
		if err := storage.Save(ctx, sess); err != nil {
			m.logger.WarnContext(ctx, "persist updated profile", "scope", scope, "error", err)
		}
	}
	m.setState(tok, &updated, scope)
	m.notify(ctx, ports.NoticeSuccess, msgProfileUpdated)
	return nil
}

// Logout clears the in-memory session and both storage scopes. It is idempotent.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.setState(nil, nil, domainauth.ScopeNone)
	return m.clearStorage(ctx)
}

// Expire handles a rejected credential: it tells the user, logs out and redirects
// to login. Further calls before the next login only repeat the logout, so concurrent
// 401s produce a single notice and redirect.
func (m *SessionManager) Expire(ctx context.Context) {
	m.mu.Lock()
	already := m.expired
	m.expired = true
	m.mu.Unlock()

	if !already {
		m.notify(ctx, ports.NoticeError, msgSessionExpired)
	}
	if err := m.Logout(ctx); err != nil {
		m.logger.WarnContext(ctx, "logout after expiry", "error", err)
	}
	if !already && m.redirector != nil {
		m.redirector.RedirectToLogin(ctx)
	}
}

// Token returns the current access token, or "".
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return ""
	}
	return m.token.AccessToken
}

// TokenSource exposes the current credential to HTTP clients.
func (m *SessionManager) TokenSource() oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		if m.token == nil {
			return nil, nil
		}
		cp := *m.token
		return &cp, nil
	})
}

// IsAuthenticated reports whether a token is held.
func (m *SessionManager) IsAuthenticated() bool {
	return m.Token() != ""
}

// IsStudent reports whether the current user is a student.
func (m *SessionManager) IsStudent() bool {
	return m.hasRole(domainauth.RoleStudent)
}

// IsTeacher reports whether the current user is a teacher.
func (m *SessionManager) IsTeacher() bool {
	return m.hasRole(domainauth.RoleTeacher)
}

// Profile returns a copy of the current user profile.
func (m *SessionManager) Profile() (domainauth.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domainauth.UserProfile{}, false
	}
	return *m.user, true
}

// Initialized reports whether Initialize has run.
func (m *SessionManager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Scope returns the storage scope holding the current session.
func (m *SessionManager) Scope() domainauth.Scope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scope
}

func (m *SessionManager) hasRole(role domainauth.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.Role == role
}

func (m *SessionManager) setState(tok *oauth2.Token, user *domainauth.UserProfile, scope domainauth.Scope) {
	m.mu.Lock()
	m.token, m.user, m.scope = tok, user, scope
	if tok != nil {
		m.expired = false
	}
	m.mu.Unlock()
}

func (m *SessionManager) markInitialized() {
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
}

func (m *SessionManager) storageFor(scope domainauth.Scope) ports.SessionStorage {
	switch scope {
	case domainauth.ScopeDurable:
		return m.durable
	case domainauth.ScopeEphemeral:
		return m.ephemeral
	default:
		return nil
	}
}

// clearStorage clears both scopes, attempting each even when one fails.
func (m *SessionManager) clearStorage(ctx context.Context) error {
	var errs []error
	for _, s := range []ports.SessionStorage{m.durable, m.ephemeral} {
		if s == nil {
			continue
		}
		if err := s.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		err := fmt.Errorf("clear session storage: %w", errors.Join(errs...))
		m.logger.WarnContext(ctx, "clear session storage", "error", err)
		return err
	}
	return nil
}

func (m *SessionManager) notify(ctx context.Context, level ports.NoticeLevel, msg string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, level, msg)
	}
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

// StorageTokens reads the access token straight from persisted storage, for callers
// that run before Initialize.
type StorageTokens struct {
	Storages []ports.SessionStorage
	// Restored reports whether the session manager has taken over. Storage is not
	// read afterwards, so a scope that failed to clear never leaks a logged-out token.
	Restored func() bool
}

// Token implements oauth2.TokenSource. It returns nil when no scope holds a session
// or once Restored reports true.
func (s StorageTokens) Token() (*oauth2.Token, error) {
	if s.Restored != nil && s.Restored() {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, storage := range s.Storages {
		if storage == nil {
			continue
		}
		sess, err := storage.Load(ctx)
		if err != nil || sess.Token == "" {
			continue
		}
		return newToken(sess.Token, sess.RefreshToken), nil
	}
	return nil, nil
}
