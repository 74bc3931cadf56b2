package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
)

func TestSessionStorage_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewSessionStorage(dir)

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ports.ErrNoSession)

	sess := domainauth.PersistedSession{
		Token: "tok",
		User:  &domainauth.UserProfile{Username: "alice", Role: domainauth.RoleStudent, StudentID: "42"},
	}
	require.NoError(t, s.Save(ctx, sess))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "42", got.User.StudentID)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestSessionStorage_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewSessionStorage(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNoSession)
	assert.ErrorIs(t, err, ports.ErrCorruptSession)
}

func TestKeyValueStore(t *testing.T) {
	ctx := context.Background()
	s := NewKeyValueStore(t.TempDir())

	v, err := s.Get(ctx, "experimentProgress")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "experimentProgress", []byte(`{"1":{}}`)))
	v, err = s.Get(ctx, "experimentProgress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{}}`, string(v))

	require.NoError(t, s.Delete(ctx, "experimentProgress"))
	require.NoError(t, s.Delete(ctx, "experimentProgress"))

	require.Error(t, s.Set(ctx, "../escape", []byte("x")))
}
