package querycache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "test:", time.Hour)
	c := New(WithStore(store))

	require.NoError(c.Set(ctx, ListKey("seats", "organization_id=o1"), entry(`[{"id":"s1"}]`)))
	require.NoError(c.Set(ctx, EntityKey("seats", "s1"), entry(`{"id":"s1"}`)))
	require.NoError(c.Set(ctx, ListKey("seats-archive", ""), entry(`[]`)))

	require.True(server.Exists("test:seats|list|organization_id=o1"))

	n, err := store.MarkStale(ctx, ListPrefix("seats").String())
	require.NoError(err)
	require.Equal(1, n)

	e, found := c.Peek(ctx, ListKey("seats", "organization_id=o1"))
	require.True(found)
	require.True(e.Stale)
	e, _ = c.Peek(ctx, EntityKey("seats", "s1"))
	require.False(e.Stale)
	e, _ = c.Peek(ctx, ListKey("seats-archive", ""))
	require.False(e.Stale)

	require.NoError(c.Remove(ctx, EntityKey("seats", "s1")))
	_, found = c.Peek(ctx, EntityKey("seats", "s1"))
	require.False(found)

	require.NoError(c.Clear(ctx))
	require.Empty(server.Keys())
}

// putOnFirstGet writes a fresh entry from another connection right after the
// first GET of key, landing between the read and the write of MarkStale.
type putOnFirstGet struct {
	once sync.Once
	key  string
	put  func()
}

func (h *putOnFirstGet) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *putOnFirstGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if cmd.Name() == "get" && len(cmd.Args()) > 1 && cmd.Args()[1] == h.key {
			h.once.Do(h.put)
		}
		return err
	}
}

func (h *putOnFirstGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisStoreMarkStaleKeepsConcurrentPut(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()
	writer := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer writer.Close()

	store := NewRedisStore(client, "test:", time.Hour)
	other := NewRedisStore(writer, "test:", time.Hour)
	key := ListKey("seats", "").String()
	require.NoError(store.Put(ctx, key, entry(`["old"]`)))

	client.AddHook(&putOnFirstGet{
		key: "test:" + key,
		put: func() {
			require.NoError(other.Put(ctx, key, entry(`["fresh"]`)))
		},
	})

	n, err := store.MarkStale(ctx, ListPrefix("seats").String())
	require.NoError(err)
	require.Equal(1, n)

	e, found, err := store.Get(ctx, key)
	require.NoError(err)
	require.True(found)
	require.JSONEq(`["fresh"]`, string(e.Data))
	require.True(e.Stale)
	require.Greater(server.TTL("test:"+key), time.Duration(0))
}

func TestEscapeGlob(t *testing.T) {
	require.Equal(t, `seats|list|a\*b\?`, escapeGlob("seats|list|a*b?"))
}
