package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

func TestSessionStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStorage()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ports.ErrNoSession)

	user := &domainauth.UserProfile{Username: "u", Role: domainauth.RoleStudent}
	require.NoError(t, s.Save(ctx, domainauth.PersistedSession{Token: "t", User: user}))

	// Mutating the caller's copy must not leak into storage.
	user.Faculty = "changed"

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)
	assert.Empty(t, got.User.Faculty)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestKeyValueStore(t *testing.T) {
	ctx := context.Background()
	s := NewKeyValueStore()

	v, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, s.Delete(ctx, "k"))
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
