package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// RedisFeed signals changes announced by metadata.RedisRepository on its
// pub/sub channel.
type RedisFeed struct {
	client  redis.UniversalClient
	channel string
	opts    feedOptions

	closeOnce sync.Once
	done      chan struct{}
}

// NewRedisFeed listens on the change channel of the session hash key.
func NewRedisFeed(client redis.UniversalClient, key string, opts ...FeedOption) *RedisFeed {
	return &RedisFeed{
		client:  client,
		channel: metadata.ChangeChannel(key),
		opts:    newFeedOptions(opts),
		done:    make(chan struct{}),
	}
}

// Watch implements ChangeFeed.
func (f *RedisFeed) Watch(ctx context.Context, onChange func()) error {
	ps := f.client.Subscribe(ctx, f.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	f.opts.log.Debug(ctx, "subscribed to session changes", "channel", f.channel)

	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.done:
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if tokenChanged(msg.Payload) {
				onChange()
			}
		}
	}
}

// tokenChanged reports whether a change announcement concerns the token.
func tokenChanged(field string) bool {
	return field == common.TokenKey
}

// Close implements ChangeFeed.
func (f *RedisFeed) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)
	})
	return nil
}
