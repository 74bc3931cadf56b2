package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestBackend_LoginAndAuthenticate(t *testing.T) {
	b := New(t)

	resp := postJSON(t, b.URL()+"auth/login/", map[string]string{"username": "student1", "password": "password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Access string `json:"access"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.Equal(t, "student", login.Role)

	req, err := http.NewRequest(http.MethodGet, b.URL()+"auth/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Access)
	userResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer userResp.Body.Close()
	assert.Equal(t, http.StatusOK, userResp.StatusCode)
	assert.Equal(t, 1, b.Hits(http.MethodGet, "/api/auth/user"))

	b.RevokeTokens()
	req, err = http.NewRequest(http.MethodGet, b.URL()+"auth/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Access)
	revoked, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer revoked.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, revoked.StatusCode)
}

func TestBackend_InjectedFailure(t *testing.T) {
	b := New(t)
	b.Fail(http.MethodPost, "/api/auth/login/", http.StatusServiceUnavailable, `{"detail":"maintenance"}`)

	resp := postJSON(t, b.URL()+"auth/login/", map[string]string{"username": "student1", "password": "password"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	b.Recover()
	resp = postJSON(t, b.URL()+"auth/login/", map[string]string{"username": "student1", "password": "password"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, b.Hits(http.MethodPost, "/api/auth/login/"))
}
