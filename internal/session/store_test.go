package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestMemoryStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	user := UserSession{Name: "Client User", Email: "client@example.com", Role: RoleClient}

	_, err := store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, "sid-1", user))
	got, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	require.NoError(t, store.Clear(ctx, "sid-1"))
	require.NoError(t, store.Clear(ctx, "sid-1"))
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_MalformedContentIsNoSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.putRaw("broken", []byte("{not json"))
	_, err := store.Load(ctx, "broken")
	assert.ErrorIs(t, err, ErrNoSession)

	store.putRaw("bad-role", []byte(`{"name":"X","email":"x@example.com","role":"superuser"}`))
	_, err = store.Load(ctx, "bad-role")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, 0)
	user := UserSession{Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin}

	require.NoError(t, store.Save(ctx, "abc", user))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Duration(0), mr.TTL("session:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	require.NoError(t, store.Clear(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_TTLAndMalformed(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)

	require.NoError(t, store.Save(ctx, "ttl", UserSession{Name: "C", Email: "c@example.com", Role: RoleClient}))
	assert.Equal(t, time.Hour, mr.TTL("session:ttl"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, "ttl")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, mr.Set("session:junk", "<<<"))
	_, err = store.Load(ctx, "junk")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_UnavailableIsError(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, 0)
	mr.Close()

	_, err := store.Load(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
