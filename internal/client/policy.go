package client

import (
	"context"
	"maps"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
)

const (
	headerRequestedWith = "X-Requested-With"
	headerRequestID     = "X-Request-ID"
	headerCSRF          = "X-CSRFToken"
	csrfCookie          = "csrftoken"
)

// TokenSourceFunc adapts a function to oauth2.TokenSource.
type TokenSourceFunc func() (*oauth2.Token, error)

// Token implements oauth2.TokenSource.
func (f TokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

// ChainTokens returns a source that yields the first usable token among sources.
// A source that errors or returns an empty token is skipped.
func ChainTokens(sources ...oauth2.TokenSource) oauth2.TokenSource {
	return TokenSourceFunc(func() (*oauth2.Token, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			tok, err := src.Token()
			if err != nil || tok == nil || tok.AccessToken == "" {
				continue
			}
			return tok, nil
		}
		return nil, nil
	})
}

// StatusHandler reacts to a failed request before the error reaches the caller.
type StatusHandler func(ctx context.Context, err *apperrors.DomainError)

// PolicyOptions configures the hooks shared by every request.
type PolicyOptions struct {
	// Tokens supplies the bearer token for outgoing requests.
	Tokens oauth2.TokenSource
	// OnUnauthorized runs once per 401 response on an authenticated request.
	OnUnauthorized func(ctx context.Context)
}

// Policy holds the outgoing and incoming request hooks.
// A Policy is immutable; the With* methods return modified copies.
type Policy struct {
	tokens         oauth2.TokenSource
	onUnauthorized func(ctx context.Context)
	byStatus       map[int]StatusHandler
	onFailure      StatusHandler
}

// NewPolicy builds the base policy.
func NewPolicy(opts PolicyOptions) *Policy {
	return &Policy{
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		byStatus:       map[int]StatusHandler{},
	}
}

// WithStatusHandler returns a copy of p that runs h for responses with the given status.
func (p *Policy) WithStatusHandler(status int, h StatusHandler) *Policy {
	cp := p.clone()
	cp.byStatus[status] = h
	return cp
}

// WithFailureHandler returns a copy of p that runs h for failures no status handler claimed,
// including transport failures. 401 responses never reach it.
func (p *Policy) WithFailureHandler(h StatusHandler) *Policy {
	cp := p.clone()
	cp.onFailure = h
	return cp
}

func (p *Policy) clone() *Policy {
	if p == nil {
		return NewPolicy(PolicyOptions{})
	}
	cp := *p
	cp.byStatus = maps.Clone(p.byStatus)
	if cp.byStatus == nil {
		cp.byStatus = map[int]StatusHandler{}
	}
	return &cp
}

// Authorize applies the outgoing hook to req and returns its request id.
func (p *Policy) Authorize(req *http.Request, jar http.CookieJar, public bool) string {
	req.Header.Set(headerRequestedWith, "XMLHttpRequest")

	id := req.Header.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
		req.Header.Set(headerRequestID, id)
	}

	if jar != nil && req.Header.Get(headerCSRF) == "" {
		for _, c := range jar.Cookies(req.URL) {
			if c.Name == csrfCookie && c.Value != "" {
				req.Header.Set(headerCSRF, c.Value)
				break
			}
		}
	}

	if public || p == nil || p.tokens == nil || req.Header.Get("Authorization") != "" {
		return id
	}
	tok, err := p.tokens.Token()
	if err == nil && tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(req)
	}
	return id
}

// Reject applies the incoming hook to a failed request and returns the error for the caller.
// public requests never trigger the unauthorized handler.
func (p *Policy) Reject(ctx context.Context, err *apperrors.DomainError, public bool) error {
	if p == nil {
		return err
	}
	if err.Status == http.StatusUnauthorized && !public {
		if p.onUnauthorized != nil {
			p.onUnauthorized(ctx)
		}
		return err
	}
	if h, ok := p.byStatus[err.Status]; ok && err.Status != 0 {
		h(ctx, err)
		return err
	}
	if p.onFailure != nil {
		p.onFailure(ctx, err)
	}
	return err
}
