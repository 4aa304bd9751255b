package tokenmap

import (
	"bytes"
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/tokenmap/cache"
	"github.com/polyrabbit/tokenmap/http"
)

const (
	DefaultFiat           = "USD"
	DefaultReferenceAsset = "BTC"
	DefaultStaleness      = time.Hour

	// Quote TTL only shields the upstream service, freshness is checked separately
	defaultQuoteTTLMinutes = 1
	defaultTokenTTLMinutes = 2
	maxPageSize            = 100
)

var DefaultFallbackSources = []string{"bitcoinAverage", "bitstamp"}

// Fetcher performs GET requests against /api/v1/{path} and returns the JSON body.
// A nil body with a nil error means the service answered with no content.
//
//go:generate mockgen -package=tokenmap -destination=mock_fetcher_test.go -source=client.go
type Fetcher interface {
	Get(ctx context.Context, path string, params map[string]string) ([]byte, error)
}

// Client resolves quotes and token metadata, cache first.
// Calls are synchronous; two callers missing the same key may both fetch it.
type Client struct {
	fetcher Fetcher
	store   cache.Store
	now     cache.Clock
	logger  *logrus.Entry

	fiat            string
	referenceAsset  string
	fallbackSources []string
	staleness       time.Duration
	quoteTTL        int
	tokenTTL        int
}

type Option func(*Client)

func WithClock(now cache.Clock) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithFiat(fiat string) Option {
	return func(c *Client) {
		if fiat != "" {
			c.fiat = fiat
		}
	}
}

func WithReferenceAsset(asset string) Option {
	return func(c *Client) {
		if asset != "" {
			c.referenceAsset = asset
		}
	}
}

func WithFallbackSources(sources ...string) Option {
	return func(c *Client) {
		if len(sources) != 0 {
			c.fallbackSources = append([]string(nil), sources...)
		}
	}
}

func WithStaleness(window time.Duration) Option {
	return func(c *Client) {
		if window > 0 {
			c.staleness = window
		}
	}
}

func WithQuoteTTL(minutes int) Option {
	return func(c *Client) {
		c.quoteTTL = minutes
	}
}

func WithTokenTTL(minutes int) Option {
	return func(c *Client) {
		c.tokenTTL = minutes
	}
}

func New(fetcher Fetcher, store cache.Store, opts ...Option) *Client {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	c := &Client{
		fetcher:         fetcher,
		store:           store,
		now:             time.Now,
		logger:          logrus.StandardLogger().WithField("component", "tokenmap"),
		fiat:            DefaultFiat,
		referenceAsset:  DefaultReferenceAsset,
		fallbackSources: DefaultFallbackSources,
		staleness:       DefaultStaleness,
		quoteTTL:        defaultQuoteTTLMinutes,
		tokenTTL:        defaultTokenTTLMinutes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial builds a Client talking to the service at baseURL, an empty url means the public endpoint
func Dial(baseURL string, timeout time.Duration, store cache.Store, opts ...Option) (*Client, error) {
	fetcher, err := http.New(baseURL, timeout, "")
	if err != nil {
		return nil, err
	}
	return New(fetcher, store, opts...), nil
}

type cacheState int

const (
	cacheMiss cacheState = iota
	cacheFound
	cacheNegative
)

func (s cacheState) String() string {
	switch s {
	case cacheFound:
		return "found"
	case cacheNegative:
		return "negative"
	default:
		return "miss"
	}
}

var negativeMarker = []byte("false")

func (c *Client) readCache(key string) (cacheState, []byte) {
	value, ok := c.store.Get(key)
	state := cacheMiss
	switch {
	case !ok:
	case bytes.Equal(bytes.TrimSpace(value), negativeMarker):
		state = cacheNegative
	default:
		state = cacheFound
	}
	c.logger.WithField("key", key).Debugf("Cache %s", state)
	return state, value
}

// emptyJSON reports bodies that carry nothing worth caching or returning
func emptyJSON(body []byte) bool {
	switch string(bytes.TrimSpace(body)) {
	case "", "null", "false", "[]", "{}":
		return true
	}
	return false
}
