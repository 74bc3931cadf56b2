package testutil

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestSigningKey signs tokens minted by the stub backend.
var TestSigningKey = []byte("portal-test-signing-key")

// AccessToken returns an HS256 JWT for username that expires after ttl.
// A negative ttl yields an already expired token.
func AccessToken(t TestingTB, username string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"token_type": "access",
		"username":   username,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TestSigningKey)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	return signed
}

// Common pointer helper functions for tests.

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
