package session

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

func TestTokenChanged(t *testing.T) {
	assert.True(t, tokenChanged(common.TokenKey))
	assert.False(t, tokenChanged("theme"))
	assert.False(t, tokenChanged(""))
	assert.False(t, tokenChanged("*"))
}

func TestRedisFeed_SubscribeFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	f := NewRedisFeed(client, "recipebook:test")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := f.Watch(ctx, func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), metadata.ChangeChannel("recipebook:test"))
	require.NoError(t, f.Close())
}

func TestRedisFeed_TwoStoresConverge(t *testing.T) {
	addr := os.Getenv("RECIPEBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RECIPEBOOK_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	key := "recipebook:test:" + uuid.NewString()
	t.Cleanup(func() { _ = client.Del(ctx, key).Err() })

	newWatchedStore := func() *Store {
		s := New(metadata.NewRedisRepository(client, key), WithChangeFeed(NewRedisFeed(client, key)))
		require.NoError(t, s.Start(ctx))
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	a := newWatchedStore()
	b := newWatchedStore()

	var aCalls, bCalls atomic.Int32
	a.Subscribe(func() { aCalls.Add(1) })
	b.Subscribe(func() { bCalls.Add(1) })

	// allow both subscriptions to register before publishing
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, a.SetToken(ctx, "T"))
	require.Eventually(t, func() bool { return bCalls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	tok, _ := b.Token(ctx)
	assert.Equal(t, "T", tok)
	require.Never(t, func() bool { return aCalls.Load() > 1 }, 200*time.Millisecond, 20*time.Millisecond)
}
