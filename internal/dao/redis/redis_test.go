package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/infrastructure/worker"
	"group_chat_server/pkg/errorx"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, worker.SyncSubmitter{}), mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		require.NoError(t, cache.Set(ctx, GroupInfoKey(1), "v", time.Minute))

		got, err := cache.Get(ctx, GroupInfoKey(1))
		require.NoError(t, err)
		assert.Equal(t, "v", got)

		mr.FastForward(2 * time.Minute)
		got, err = cache.Get(ctx, GroupInfoKey(1))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("get or error on missing key", func(t *testing.T) {
		cache, _ := setupTestRedis(t)
		_, err := cache.GetOrError(ctx, "missing")
		assert.True(t, errorx.IsNotFound(err))
	})

	t.Run("delete ignores absent keys", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		require.NoError(t, mr.Set(GroupInfoKey(2), "x"))
		require.NoError(t, cache.Delete(ctx, GroupInfoKey(2), GroupInfoKey(3)))
		assert.False(t, mr.Exists(GroupInfoKey(2)))
		assert.NoError(t, cache.Delete(ctx))
	})

	t.Run("delete by pattern", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		require.NoError(t, mr.Set(MyGroupsKey(1), "a"))
		require.NoError(t, mr.Set(MyGroupsKey(2), "b"))
		require.NoError(t, mr.Set(GroupInfoKey(1), "c"))

		require.NoError(t, cache.DeleteByPattern(ctx, MyGroupsPattern()))
		assert.False(t, mr.Exists(MyGroupsKey(1)))
		assert.False(t, mr.Exists(MyGroupsKey(2)))
		assert.True(t, mr.Exists(GroupInfoKey(1)))
	})

	t.Run("server failure becomes cache error", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		mr.SetError("boom")
		_, err := cache.Get(ctx, "k")
		assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))
	})
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	cache := NewNoopCache(worker.SyncSubmitter{})

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = cache.GetOrError(ctx, "k")
	assert.True(t, errorx.IsNotFound(err))

	var ran bool
	cache.SubmitTask(func() { ran = true })
	assert.True(t, ran)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "group_info_12", GroupInfoKey(12))
	assert.Equal(t, "my_groups_3", MyGroupsKey(3))
	assert.Equal(t, "refresh_token_9", RefreshTokenKey(9))
}

func TestInvalidate(t *testing.T) {
	t.Run("groups drop detail and every my-groups list", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		require.NoError(t, mr.Set(GroupInfoKey(1), "g1"))
		require.NoError(t, mr.Set(GroupInfoKey(2), "g2"))
		require.NoError(t, mr.Set(MyGroupsKey(5), "l"))

		InvalidateGroups(cache, 1)
		assert.False(t, mr.Exists(GroupInfoKey(1)))
		assert.True(t, mr.Exists(GroupInfoKey(2)))
		assert.False(t, mr.Exists(MyGroupsKey(5)))
	})

	t.Run("my groups only for named users", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		require.NoError(t, mr.Set(MyGroupsKey(1), "a"))
		require.NoError(t, mr.Set(MyGroupsKey(2), "b"))

		InvalidateMyGroups(cache, 1)
		assert.False(t, mr.Exists(MyGroupsKey(1)))
		assert.True(t, mr.Exists(MyGroupsKey(2)))
	})
}
