package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/zdaf-zdaf/group-platform/internal/adapters/memstore"
	"github.com/zdaf-zdaf/group-platform/internal/client"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	mockauth "github.com/zdaf-zdaf/group-platform/internal/mocks/auth"
	"github.com/zdaf-zdaf/group-platform/internal/testutil/backend"
)

// harness wires the real client and wrappers against the stub backend.
type harness struct {
	backend    *backend.Backend
	client     *client.Client
	sessions   *SessionManager
	durable    *memstore.SessionStorage
	ephemeral  *memstore.SessionStorage
	notifier   *mockauth.RecordingNotifier
	redirector *mockauth.CountingRedirector

	auth        *AuthAPI
	notices     *NoticeAPI
	materials   *MaterialAPI
	sets        *QuestionSetAPI
	forum       *ForumAPI
	submissions *SubmissionAPI
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		backend:    backend.New(t),
		durable:    memstore.NewSessionStorage(),
		ephemeral:  memstore.NewSessionStorage(),
		notifier:   &mockauth.RecordingNotifier{},
		redirector: &mockauth.CountingRedirector{},
	}

	policy := client.NewPolicy(client.PolicyOptions{
		Tokens: client.TokenSourceFunc(func() (*oauth2.Token, error) {
			return h.sessions.TokenSource().Token()
		}),
		OnUnauthorized: func(ctx context.Context) { h.sessions.Expire(ctx) },
	})
	c, err := client.New(client.Config{BaseURL: h.backend.URL(), Policy: policy})
	require.NoError(t, err)
	h.client = c

	h.auth = NewAuthAPI(c)
	h.sessions = NewSessionManager(SessionManagerOptions{
		Remote:     h.auth,
		Durable:    h.durable,
		Ephemeral:  h.ephemeral,
		Redirector: h.redirector,
		Notifier:   h.notifier,
	})
	h.notices = NewNoticeAPI(NoticeAPIOptions{Client: c, Roles: h.sessions, Notifier: h.notifier})
	h.materials = NewMaterialAPI(c)
	h.sets = NewQuestionSetAPI(c)
	h.forum = NewForumAPI(c)
	h.submissions = NewSubmissionAPI(c)
	return h
}

func (h *harness) login(t *testing.T, username string) domainauth.UserProfile {
	t.Helper()
	profile, err := h.sessions.Login(context.Background(), domainauth.LoginInput{Username: username, Password: "password"})
	require.NoError(t, err)
	return profile
}
