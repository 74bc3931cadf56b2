package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
)

// newToken wraps an access token issued by the backend. When the token is a JWT
// its exp claim becomes the expiry; the signature is not checked on the client.
func newToken(access, refresh string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	if exp, ok := tokenExpiry(access); ok {
		tok.Expiry = exp
	}
	return tok
}

// tokenExpiry reads the exp claim of a JWT without verifying it.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// tokenExpired reports whether raw is a JWT whose exp lies before now.
// Opaque tokens never expire locally.
func tokenExpired(raw string, now time.Time) bool {
	exp, ok := tokenExpiry(raw)
	return ok && !exp.After(now)
}

// SessionExpiry returns the exp of the persisted access token, or the zero time
// when it cannot be read. Storage adapters use it to bound how long a session is kept.
func SessionExpiry(sess domainauth.PersistedSession) time.Time {
	exp, _ := tokenExpiry(sess.Token)
	return exp
}
