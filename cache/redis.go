package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultRedisTimeout = 3 * time.Second

// RedisStore is the persistent backend. Store has no error contract, so a
// failing backend reads as a miss and drops writes, with a warning.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  *logrus.Entry
}

type RedisConfig struct {
	Addr    string
	DB      int
	Prefix  string
	Timeout time.Duration
	Logger  *logrus.Logger
}

// NewRedisStore connects and pings the server before handing out the store
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", cfg.Addr)
	}
	store := NewRedisStoreFromClient(client, cfg.Prefix, cfg.Logger)
	if cfg.Timeout > 0 {
		store.timeout = cfg.Timeout
	}
	store.logger.WithField("addr", cfg.Addr).Debug("Connected to redis")
	return store, nil
}

func NewRedisStoreFromClient(client redis.UniversalClient, prefix string, logger *logrus.Logger) *RedisStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: defaultRedisTimeout,
		logger:  logger.WithField("component", "cache.redis"),
	}
}

func (s *RedisStore) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to read from redis, treating as a miss")
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Put(key string, value []byte, minutes int) {
	if minutes <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, ttl(minutes)).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to write to redis")
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
