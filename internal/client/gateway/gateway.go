package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// TokenSource is the session the gateway reads bearer tokens from and writes
// them to. *session.Store satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Config addresses the three services.
type Config struct {
	AuthBaseURL   string
	RecipeBaseURL string
	RatingBaseURL string

	// Timeout bounds every call. Zero leaves calls bounded by the caller's
	// context and the HTTP client only.
	Timeout time.Duration

	UserAgent string
}

// Gateway groups the service clients.
type Gateway struct {
	Auth    *AuthClient
	Recipes *RecipeClient
	Ratings *RatingClient
}

type options struct {
	httpClient *http.Client
	log        logging.Logger
	registerer prometheus.Registerer
}

// Option configures a Gateway.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger used for per-call debug lines.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithRegisterer registers the gateway metrics with reg. Without it the
// metrics are collected but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// New validates cfg and builds a Gateway reading and writing the session
// through tokens.
func New(cfg Config, tokens TokenSource, opts ...Option) (*Gateway, error) {
	if tokens == nil {
		return nil, errors.New("gateway: token source is required")
	}

	var errs []error
	for name, raw := range map[string]*string{
		"auth":   &cfg.AuthBaseURL,
		"recipe": &cfg.RecipeBaseURL,
		"rating": &cfg.RatingBaseURL,
	} {
		u, err := url.Parse(*raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("gateway: %s base URL %q must be an absolute URL", name, *raw))
			continue
		}
		*raw = strings.TrimRight(*raw, "/")
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	o := options{
		httpClient: &http.Client{},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := newMetrics(o.registerer)
	log := o.log.With("component", "gateway")

	newTransport := func(service, baseURL string) *transport {
		return &transport{
			service:   service,
			baseURL:   baseURL,
			http:      o.httpClient,
			tokens:    tokens,
			timeout:   cfg.Timeout,
			userAgent: cfg.UserAgent,
			log:       log.With("service", service),
			metrics:   m,
		}
	}

	return &Gateway{
		Auth:    &AuthClient{t: newTransport("auth", cfg.AuthBaseURL), tokens: tokens},
		Recipes: &RecipeClient{t: newTransport("recipe", cfg.RecipeBaseURL)},
		Ratings: &RatingClient{t: newTransport("rating", cfg.RatingBaseURL)},
	}, nil
}
