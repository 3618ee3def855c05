package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// Observer is called whenever the token changes. It carries no payload;
// observers call Store.Token to read the current value.
type Observer func()

// ChangeFeed delivers change signals written to the shared storage by other
// processes.
type ChangeFeed interface {
	// Watch calls onChange for every (possibly coalesced) change signal and
	// blocks until ctx is done or the feed is closed.
	Watch(ctx context.Context, onChange func()) error
	Close() error
}

var ErrAlreadyStarted = errors.New("session feed already started")

type subscription struct {
	id string
	fn Observer
}

// Store owns the persisted bearer token and fans out change notifications.
type Store struct {
	repo metadata.Repository
	feed ChangeFeed
	log  logging.Logger

	// mu serialises writes and external-change checks so a store never
	// mistakes its own write for someone else's.
	mu   sync.Mutex
	last string

	subsMu sync.RWMutex
	subs   []subscription

	feedMu  sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithChangeFeed attaches the cross-process change channel. Call Start to
// begin watching it.
func WithChangeFeed(f ChangeFeed) Option {
	return func(s *Store) {
		s.feed = f
	}
}

// New creates a Store persisting the token in repo.
func New(repo metadata.Repository, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "session")
	return s
}

// Token returns the current bearer token and whether one is present.
func (s *Store) Token(ctx context.Context) (string, bool) {
	v, err := s.read(ctx)
	if err != nil {
		s.log.Warn(ctx, "token read failed, using last known value", "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.last, s.last != ""
	}
	return v, v != ""
}

// read returns the persisted token; an absent token reads as "".
func (s *Store) read(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.TokenKey)
	if errors.Is(err, metadata.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// SetToken persists token and notifies observers. An empty token clears the
// session.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}

	s.mu.Lock()
	err := s.repo.Set(ctx, common.TokenKey, []byte(token))
	s.last = token
	s.mu.Unlock()

	s.log.Debug(ctx, "token set")
	s.notify()

	if err != nil {
		return fmt.Errorf("%w: set token: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// ClearToken removes the token and notifies observers.
func (s *Store) ClearToken(ctx context.Context) error {
	s.mu.Lock()
	err := s.repo.Delete(ctx, common.TokenKey)
	s.last = ""
	s.mu.Unlock()

	s.log.Debug(ctx, "token cleared")
	s.notify()

	if err != nil {
		return fmt.Errorf("%w: clear token: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// Subscribe registers obs for every token change and returns a function that
// removes it. Calling the returned function more than once is a no-op.
func (s *Store) Subscribe(obs Observer) (unsubscribe func()) {
	id := uuid.NewString()

	s.subsMu.Lock()
	s.subs = append(s.subs, subscription{id: id, fn: obs})
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Observers returns the number of registered observers.
func (s *Store) Observers() int {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return len(s.subs)
}

func (s *Store) notify() {
	s.subsMu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	for _, sub := range subs {
		sub.fn()
	}
}

// Start begins watching the change feed in the background. Without a feed
// it does nothing. The current persisted value becomes the baseline, so only
// later changes notify.
func (s *Store) Start(ctx context.Context) error {
	if s.feed == nil {
		return nil
	}

	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	s.mu.Lock()
	if v, err := s.read(ctx); err == nil {
		s.last = v
	}
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.feed.Watch(ctx, func() { s.externalChange(ctx) }); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error(ctx, "session change feed stopped", "error", err)
		}
	}()

	s.log.Debug(ctx, "session change feed started")
	return nil
}

// Close stops the change feed and waits for its goroutine to exit.
func (s *Store) Close() error {
	if s.feed == nil {
		return nil
	}

	s.feedMu.Lock()
	cancel, done := s.cancel, s.done
	s.feedMu.Unlock()

	if cancel != nil {
		cancel()
	}
	err := s.feed.Close()
	if done != nil {
		<-done
	}
	return err
}

// externalChange re-reads the persisted token after a feed signal and
// notifies only if it differs from what this store last wrote or saw.
func (s *Store) externalChange(ctx context.Context) {
	s.mu.Lock()
	current, err := s.read(ctx)
	if err != nil {
		s.mu.Unlock()
		s.log.Warn(ctx, "token re-read after external change failed", "error", err)
		return
	}
	if current == s.last {
		s.mu.Unlock()
		return
	}
	s.last = current
	s.mu.Unlock()

	s.log.Debug(ctx, "session changed by another process", "logged_in", current != "")
	s.notify()
}
