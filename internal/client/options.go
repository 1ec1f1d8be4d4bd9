package client

import (
	"crypto/tls"
	"net/http"

	"github.com/huddle-io/huddle/internal/querycache"
	"go.uber.org/zap"
)

type options struct {
	bearerToken string
	userAgent   string
	tlsConfig   *tls.Config
	httpClient  *http.Client
	cache       *querycache.Cache
	logger      *zap.SugaredLogger
}

func newOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

type Option func(o *options) error

func WithBearerToken(
	bearerToken string,
) Option {
	return func(o *options) error {
		o.bearerToken = bearerToken
		return nil
	}
}

func WithUserAgent(
	userAgent string,
) Option {
	return func(o *options) error {
		o.userAgent = userAgent
		return nil
	}
}

func WithTLSConfig(
	config *tls.Config,
) Option {
	return func(o *options) error {
		o.tlsConfig = config
		return nil
	}
}

// WithHTTPClient uses the given client instead of building one. The bearer
// token and user agent are still added to every request.
func WithHTTPClient(
	httpClient *http.Client,
) Option {
	return func(o *options) error {
		o.httpClient = httpClient
		return nil
	}
}

// WithCache shares a query cache between clients, by default each client
// gets its own in memory cache.
func WithCache(
	cache *querycache.Cache,
) Option {
	return func(o *options) error {
		o.cache = cache
		return nil
	}
}

func WithLogger(
	logger *zap.SugaredLogger,
) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
