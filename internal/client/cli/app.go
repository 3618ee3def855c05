package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/gateway"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/client/storage"
	"github.com/dmitrijs2005/recipebook/internal/filex"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const userAgent = "recipebook-cli/1.0"

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Store
	gw      *gateway.Gateway
	reader  *bufio.Reader
	out     io.Writer
	metrics prometheus.Gatherer

	// metricsAddr is where /metrics is served, empty when disabled.
	metricsAddr string

	statusMu sync.Mutex
	status   string

	unsubscribe func()
	closers     []func() error
}

// NewApp wires the session storage selected by c, the session store and the
// service gateway. Gateway metrics go to an app-owned registry, served over
// HTTP when c.MetricsAddr is set.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(logging.Options{Level: c.LogLevel, Pretty: c.LogPretty})
	reg := newMetricsRegistry()

	repo, feed, closeStorage, err := openSessionStorage(ctx, c, log)
	if err != nil {
		return nil, err
	}

	store := session.New(repo, session.WithLogger(log), session.WithChangeFeed(feed))

	auth, recipe, rating := c.ServiceURLs()
	gw, err := gateway.New(gateway.Config{
		AuthBaseURL:   auth,
		RecipeBaseURL: recipe,
		RatingBaseURL: rating,
		Timeout:       c.RequestTimeout,
		UserAgent:     userAgent,
	}, store, gateway.WithLogger(log), gateway.WithRegisterer(reg))
	if err != nil {
		_ = store.Close()
		_ = closeStorage()
		return nil, err
	}

	var addr string
	stopMetrics := func() error { return nil }
	if c.MetricsAddr != "" {
		addr, stopMetrics, err = serveMetrics(ctx, c.MetricsAddr, reg, log)
		if err != nil {
			_ = store.Close()
			_ = closeStorage()
			return nil, err
		}
	}

	a := newApp(store, gw, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.log = log
	a.metrics = reg
	a.metricsAddr = addr
	a.closers = append(a.closers, stopMetrics, store.Close, closeStorage)
	return a, nil
}

// newApp assembles an App from ready parts and subscribes it to session
// changes.
func newApp(store *session.Store, gw *gateway.Gateway, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		log:     logging.Nop(),
		session: store,
		gw:      gw,
		reader:  reader,
		out:     out,
	}
	a.status = statusLine(store.Token(context.Background()))
	a.unsubscribe = store.Subscribe(a.onSessionChange)
	return a
}

// openSessionStorage opens the configured session backend and its change
// feed. The returned function releases both.
func openSessionStorage(ctx context.Context, c *config.Config, log logging.Logger) (metadata.Repository, session.ChangeFeed, func() error, error) {
	switch c.SessionStore {
	case config.StoreRedis:
		client, err := storage.ConnectRedis(ctx, storage.RedisConfig{Addr: c.RedisAddr, DB: c.RedisDB})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		repo := metadata.NewRedisRepository(client, c.RedisKey)
		feed := session.NewRedisFeed(client, c.RedisKey, session.WithFeedLogger(log))
		return repo, feed, client.Close, nil

	default:
		path, err := filex.EnsureParentDir(c.SessionDBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		db, err := storage.InitDatabase(ctx, storage.DSN(path))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open session database: %w", err)
		}
		feed, err := session.NewFileFeed(path, session.WithFeedLogger(log))
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return metadata.NewSQLiteRepository(db), feed, db.Close, nil
	}
}

// Run starts watching for session changes made elsewhere, runs the REPL and
// releases resources when the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Start(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}

// Close unsubscribes from the session and closes storage.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.session.LoggedIn(ctx)
}
