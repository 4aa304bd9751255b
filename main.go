package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/tokenmap/cache"
	"github.com/polyrabbit/tokenmap/command"
	"github.com/polyrabbit/tokenmap/config"
	"github.com/polyrabbit/tokenmap/http"
	"github.com/polyrabbit/tokenmap/tokenmap"
	"github.com/polyrabbit/tokenmap/writer"
)

func newStore(ctx context.Context, cfg *config.Config) cache.Store {
	if !cfg.UseRedis() {
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
		Addr:    cfg.Cache.RedisAddr,
		DB:      cfg.Cache.RedisDB,
		Prefix:  cfg.Cache.Prefix,
		Timeout: cfg.TimeoutDuration(),
		Logger:  logrus.StandardLogger(),
	})
	if err != nil {
		logrus.WithError(err).Warnf("Redis at %s is unavailable, falling back to in-memory cache", cfg.Cache.RedisAddr)
		return cache.NewMemoryStore()
	}
	logrus.Debugf("Using redis cache at %s", cfg.Cache.RedisAddr)
	return store
}

func newClient(ctx context.Context, cfg *config.Config) *tokenmap.Client {
	fetcher, err := http.New(cfg.URL, cfg.TimeoutDuration(), cfg.Proxy)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Debugf("Talking to %s, HTTP request timeout is set to %s", fetcher.BaseURL, cfg.TimeoutDuration())
	return tokenmap.New(fetcher, newStore(ctx, cfg),
		tokenmap.WithFiat(cfg.Fiat),
		tokenmap.WithReferenceAsset(cfg.ReferenceAsset),
		tokenmap.WithFallbackSources(cfg.FallbackSources...),
		tokenmap.WithStaleness(cfg.Staleness()),
	)
}

func main() {
	cfg := config.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tableWriter := writer.NewTableWriter(cfg.Columns)
	registry := command.NewRegistry(&command.Env{
		Client: newClient(ctx, cfg),
		Writer: tableWriter,
		Config: cfg,
	})
	if cfg.Command == "" {
		config.ListCommandsAndExit(registry.Describe())
	}

	refreshInterval := cfg.Refresh
	if refreshInterval != 0 {
		logrus.Infof("Auto refresh on every %d seconds", refreshInterval)
		logrus.SetOutput(tableWriter)
		defer logrus.SetOutput(colorable.NewColorableStderr())
	}

	for {
		if err := registry.Run(ctx, cfg.Command, cfg.Args); err != nil {
			logrus.Errorf("%s: %v", cfg.Command, err)
			if refreshInterval == 0 {
				os.Exit(1)
			}
		}
		if refreshInterval == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(refreshInterval) * time.Second):
		}
	}
}
