package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "y"} {
		t.Setenv("PORTAL_TEST_FLAG", v)
		assert.True(t, envBool("PORTAL_TEST_FLAG"), v)
	}
	t.Setenv("PORTAL_TEST_FLAG", "off")
	assert.False(t, envBool("PORTAL_TEST_FLAG"))
}

func TestAccessToken(t *testing.T) {
	raw := AccessToken(t, "student1", time.Minute)

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return TestSigningKey, nil
	})
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, "student1", claims["username"])

	expired := AccessToken(t, "student1", -time.Minute)
	_, err = jwt.Parse(expired, func(*jwt.Token) (interface{}, error) { return TestSigningKey, nil })
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
