// Package client is the HTTP client shared by every portal API wrapper.
// It binds one base address, attaches credentials through a Policy and
// normalizes failures into DomainErrors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	apperrors "github.com/zdaf-zdaf/group-platform/internal/errors"
	"github.com/zdaf-zdaf/group-platform/internal/observability/statsd"
)

const (
	// DefaultBaseURL is the backend API root. Endpoint paths are relative to it.
	DefaultBaseURL = "http://localhost:8000/api/"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 1 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// HTTPClient overrides the transport. Its Timeout is replaced when zero.
	HTTPClient *http.Client
	Policy     *Policy
	Metrics    statsd.Sink
	Logger     *slog.Logger
}

// Client issues requests against one backend. Safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header
	policy  *Policy
	metrics statsd.Sink
	logger  *slog.Logger
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "notices/1/".
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
	// Public requests carry no credentials and never expire the session on 401.
	Public bool
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	} else {
		cp := *hc
		hc = &cp
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
		if hc.Timeout <= 0 {
			hc.Timeout = DefaultTimeout
		}
	}
	if hc.Jar == nil {
		jar, jerr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jerr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jerr)
		}
		hc.Jar = jar
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		headers.Set("User-Agent", ua)
	}
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = statsd.Nop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:    base,
		http:    hc,
		headers: headers,
		policy:  cfg.Policy,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// WithPolicy returns a client sharing c's transport and cookies but using p.
func (c *Client) WithPolicy(p *Policy) *Client {
	cp := *c
	cp.policy = p
	return &cp
}

// Policy returns the policy in effect.
func (c *Client) Policy() *Policy { return c.policy }

// BaseURL returns a copy of the normalized base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Jar exposes the cookie jar holding the CSRF cookie.
func (c *Client) Jar() http.CookieJar { return c.http.Jar }

// Do sends r with a JSON body and decodes a successful JSON response into out.
// out may be nil to discard the body.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	var body io.Reader
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return apperrors.Validation("invalid request payload", err)
		}
		body = bytes.NewReader(buf)
		r.Header = cloneHeader(r.Header)
		if r.Header.Get("Content-Type") == "" {
			r.Header.Set("Content-Type", "application/json")
		}
	}

	resp, err := c.send(ctx, r, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.reject(ctx, apperrors.Transport(err), r.Public)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Decode(fmt.Errorf("decode %s %s: %w", r.Method, r.Path, err))
	}
	return nil
}

// send performs the round trip. A non-nil response always has a 2xx status.
func (c *Client) send(ctx context.Context, r Request, body io.Reader) (*http.Response, error) {
	target, err := c.resolve(r)
	if err != nil {
		return nil, apperrors.Validation("invalid request path", err)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, apperrors.Validation("invalid request", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	requestID := c.policy.Authorize(req, c.http.Jar, r.Public)

	resource := resourceOf(r.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.observe(resource, method, status, elapsed)
	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", target.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", requestID,
	)

	if err != nil {
		return nil, c.reject(ctx, apperrors.Transport(err), r.Public)
	}
	if status >= 200 && status < 300 {
		return resp, nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	return nil, c.reject(ctx, apperrors.FromResponse(status, data), r.Public)
}

func (c *Client) reject(ctx context.Context, de *apperrors.DomainError, public bool) error {
	if de.Code == apperrors.ErrCodeCanceled {
		return de
	}
	return c.policy.Reject(ctx, de, public)
}

func (c *Client) resolve(r Request) (*url.URL, error) {
	p := strings.TrimLeft(strings.TrimSpace(r.Path), "/")
	ref, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be relative to the base url", r.Path)
	}
	u := c.base.ResolveReference(ref)
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func (c *Client) observe(resource, method string, status int, elapsed time.Duration) {
	tags := map[string]string{
		"resource": resource,
		"method":   method,
		"status":   statusTag(status),
	}
	c.metrics.Count("api.request", 1, tags)
	c.metrics.Timing("api.request.duration", elapsed, tags)
}

func statusTag(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

// resourceOf returns the first path segment, e.g. "notices" for "notices/1/".
func resourceOf(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
