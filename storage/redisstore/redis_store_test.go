package redisstore_test

import (
	"context"
	"testing"

	"github.com/abhyasa/study-client/storage/redisstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, profile string) (*redisstore.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store := redisstore.New(redisstore.Options{Addr: mr.Addr(), Profile: profile})
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, "lab-1")

	require.NoError(t, store.Ping(ctx))

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "token")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("set is namespaced by profile", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "token", "abc"))

		got, err := mr.Get("abhyasa:lab-1:token")
		require.NoError(t, err)
		require.Equal(t, "abc", got)

		v, ok, err := store.Get(ctx, "token")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "abc", v)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "lastActive", "1"))
		require.NoError(t, store.Delete(ctx, "token", "lastActive"))
		require.False(t, mr.Exists("abhyasa:lab-1:token"))
		require.False(t, mr.Exists("abhyasa:lab-1:lastActive"))
		require.NoError(t, store.Delete(ctx))
	})
}

func TestRedisStore_Unreachable(t *testing.T) {
	store, mr := newStore(t, "")
	mr.Close()

	require.Error(t, store.Ping(context.Background()))
	_, _, err := store.Get(context.Background(), "token")
	require.Error(t, err)
}
