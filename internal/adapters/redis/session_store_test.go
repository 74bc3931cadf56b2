package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zdaf-zdaf/group-platform/internal/domain/auth"
	"github.com/zdaf-zdaf/group-platform/internal/ports"
	"github.com/zdaf-zdaf/group-platform/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession() domainauth.PersistedSession {
	return domainauth.PersistedSession{
		Token: "access-token",
		User: &domainauth.UserProfile{
			Username: "student1",
			Role:     domainauth.RoleStudent,
			Email:    "s1@example.com",
		},
		SavedAt: time.Now().UTC(),
	}
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, SessionStoreOptions{Profile: "t1"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-token", got.Token)
	assert.Equal(t, "student1", got.User.Username)
	assert.Equal(t, domainauth.RoleStudent, got.User.Role)

	ttl, err := client.TTL(ctx, store.Key()).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "no expiry func means no TTL")
}

func TestSessionStore_LoadMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, SessionStoreOptions{Profile: "missing"})
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestSessionStore_TTLFromExpiry(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	exp := time.Now().Add(10 * time.Minute)
	store := NewSessionStore(client, SessionStoreOptions{
		Profile: "ttl",
		Expiry:  func(domainauth.PersistedSession) time.Time { return exp },
	})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))
	ttl, err := client.TTL(ctx, store.Key()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestSessionStore_SaveExpired(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, SessionStoreOptions{
		Profile: "expired",
		Expiry:  func(domainauth.PersistedSession) time.Time { return time.Now().Add(-time.Minute) },
	})
	err := store.Save(context.Background(), testSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestSessionStore_ClearAndCorrupt(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, SessionStoreOptions{Profile: "corrupt"})
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, store.Key(), "{broken", 0).Err())
	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNoSession)
	assert.ErrorIs(t, err, ports.ErrCorruptSession)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestKeyValueStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	kv := NewKeyValueStore(client, "portal:kv:")
	ctx := context.Background()

	v, err := kv.Get(ctx, "codingProgress")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, kv.Set(ctx, "codingProgress", []byte(`{"1":{"2":{"code":"x"}}}`)))
	v, err = kv.Get(ctx, "codingProgress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"2":{"code":"x"}}}`, string(v))

	require.NoError(t, kv.Delete(ctx, "codingProgress"))
	v, err = kv.Get(ctx, "codingProgress")
	require.NoError(t, err)
	assert.Nil(t, v)
}
