// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.RemoteAuth     = (*StubRemoteAuth)(nil)
	_ ports.Notifier       = (*RecordingNotifier)(nil)
	_ ports.Redirector     = (*CountingRedirector)(nil)
	_ ports.SessionStorage = (*FailingSessionStorage)(nil)
)

// ErrInvalidCredentials is returned by StubRemoteAuth for a wrong password.
var ErrInvalidCredentials = &apperrors.DomainError{
	Code:    apperrors.ErrCodeServer,
	Message: "用户名或密码错误",
	Server:  "用户名或密码错误",
	Status:  400,
	Cause:   errors.New("invalid credentials"),
}

// StubRemoteAuth accepts a fixed set of users. Funcs override the default behavior.
type StubRemoteAuth struct {
	LoginFunc    func(ctx context.Context, in domainauth.LoginInput) (domainauth.LoginResult, error)
	RegisterFunc func(ctx context.Context, in domainauth.RegisterInput) error
	UpdateFunc   func(ctx context.Context, upd domainauth.ProfileUpdate) error

	// Users maps username to the login response returned for it.
	Users map[string]domainauth.LoginResult
	// Passwords maps username to its password; missing entries accept any password.
	Passwords map[string]string

	mu      sync.Mutex
	Updates []domainauth.ProfileUpdate
}

// NewStubRemoteAuth creates a StubRemoteAuth knowing one student and one teacher.
func NewStubRemoteAuth() *StubRemoteAuth {
	return &StubRemoteAuth{
		Users: map[string]domainauth.LoginResult{
			"student1": {Access: "token", Refresh: "refresh", Username: "student1", Role: domainauth.RoleStudent, Email: "s1@example.com"},
			"teacher1": {Access: "teacher-token", Refresh: "refresh", Username: "teacher1", Role: domainauth.RoleTeacher, Email: "t1@example.com"},
		},
		Passwords: map[string]string{"student1": "password", "teacher1": "password"},
	}
}

func (s *StubRemoteAuth) Login(ctx context.Context, in domainauth.LoginInput) (domainauth.LoginResult, error) {
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, in)
	}
	res, ok := s.Users[in.Username]
	if !ok {
		return domainauth.LoginResult{}, ErrInvalidCredentials
	}
	if want, ok := s.Passwords[in.Username]; ok && want != in.Password {
		return domainauth.LoginResult{}, ErrInvalidCredentials
	}
	return res, nil
}

func (s *StubRemoteAuth) Register(ctx context.Context, in domainauth.RegisterInput) error {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, in)
	}
	return nil
}

func (s *StubRemoteAuth) UpdateUserProfile(ctx context.Context, upd domainauth.ProfileUpdate) error {
	s.mu.Lock()
	s.Updates = append(s.Updates, upd)
	s.mu.Unlock()
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, upd)
	}
	return nil
}

// Notice is one message captured by RecordingNotifier.
type Notice struct {
	Level   ports.NoticeLevel
	Message string
}

// RecordingNotifier captures notices in order.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *RecordingNotifier) Notify(_ context.Context, level ports.NoticeLevel, message string) {
	n.mu.Lock()
	n.notices = append(n.notices, Notice{Level: level, Message: message})
	n.mu.Unlock()
}

// Notices returns a snapshot of the captured notices.
func (n *RecordingNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

// Messages returns the captured messages only.
func (n *RecordingNotifier) Messages() []string {
	var out []string
	for _, notice := range n.Notices() {
		out = append(out, notice.Message)
	}
	return out
}

// CountingRedirector counts login redirects.
type CountingRedirector struct {
	mu    sync.Mutex
	count int
}

func (r *CountingRedirector) RedirectToLogin(context.Context) {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

// Count returns the number of redirects so far.
func (r *CountingRedirector) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// FailingSessionStorage wraps a storage and fails the selected operations.
type FailingSessionStorage struct {
	ports.SessionStorage
	SaveErr  error
	ClearErr error
}

func (f *FailingSessionStorage) Save(ctx context.Context, sess domainauth.PersistedSession) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	return f.SessionStorage.Save(ctx, sess)
}

func (f *FailingSessionStorage) Clear(ctx context.Context) error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	return f.SessionStorage.Clear(ctx)
}
