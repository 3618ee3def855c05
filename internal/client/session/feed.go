package session

import (
	"time"

	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const defaultDebounce = 50 * time.Millisecond

type feedOptions struct {
	log      logging.Logger
	debounce time.Duration
}

// FeedOption configures a change feed.
type FeedOption func(*feedOptions)

// WithFeedLogger sets the logger for a change feed.
func WithFeedLogger(l logging.Logger) FeedOption {
	return func(o *feedOptions) {
		o.log = l
	}
}

// WithDebounce sets how long a feed waits for a burst of events to settle
// before signalling. Zero signals on every event.
func WithDebounce(d time.Duration) FeedOption {
	return func(o *feedOptions) {
		o.debounce = d
	}
}

func newFeedOptions(opts []FeedOption) feedOptions {
	o := feedOptions{log: logging.Nop(), debounce: defaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
