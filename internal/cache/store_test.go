package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client), mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_GetSetJSON(t *testing.T) {
	t.Parallel()

	store, mr := newStore(t)
	ctx := context.Background()

	var missing payload
	found, err := store.GetJSON(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	found, err = store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	// the entry expires with its TTL
	mr.FastForward(2 * time.Minute)
	found, err = store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Aside(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			dest.Name = "fetched"
			return nil
		}
	}

	var first payload
	require.NoError(t, store.Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Name)

	var second payload
	require.NoError(t, store.Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", second.Name)

	// fetch errors propagate and nothing is cached
	fetchErr := errors.New("db down")
	var third payload
	err := store.Aside(ctx, "other", &third, time.Minute, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)
}

func TestStore_ClearPrefix(t *testing.T) {
	t.Parallel()

	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, FeedKey(1), payload{}, time.Minute))
	require.NoError(t, store.SetJSON(ctx, FeedKey(2), payload{}, time.Minute))
	require.NoError(t, store.SetJSON(ctx, "user:1", payload{}, time.Minute))

	require.NoError(t, store.ClearPrefix(ctx, FeedKeyPrefix))

	assert.False(t, mr.Exists(FeedKey(1)))
	assert.False(t, mr.Exists(FeedKey(2)))
	assert.True(t, mr.Exists("user:1"))
}

func TestStore_PassThrough(t *testing.T) {
	t.Parallel()

	var store Store
	ctx := context.Background()

	var got payload
	found, err := store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.SetJSON(ctx, "k", payload{}, time.Minute))
	assert.NoError(t, store.ClearPrefix(ctx, FeedKeyPrefix))

	calls := 0
	require.NoError(t, store.Aside(ctx, "k", &got, time.Minute, func() error {
		calls++
		return nil
	}))
	require.NoError(t, store.Aside(ctx, "k", &got, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 2, calls)
}
