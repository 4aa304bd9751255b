package config

import (
	"strings"
	"time"
)

const (
	ColumnSource   = "Source"
	ColumnPair     = "Pair"
	ColumnLast     = "Last"
	ColumnBid      = "Bid"
	ColumnAsk      = "Ask"
	ColumnSatoshis = "Satoshis"
	ColumnUpdated  = "Updated"
)

func supportedColumns() []string {
	return []string{ColumnSource, ColumnPair, ColumnLast, ColumnBid, ColumnAsk, ColumnUpdated}
}

func AllColumns() []string {
	return []string{ColumnSource, ColumnPair, ColumnLast, ColumnBid, ColumnAsk, ColumnSatoshis, ColumnUpdated}
}

type CacheConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	Prefix    string `mapstructure:"prefix"`
}

type Config struct {
	URL             string      `mapstructure:"url"`
	Timeout         int         `mapstructure:"timeout"`
	Proxy           string      `mapstructure:"proxy"`
	Refresh         int         `mapstructure:"refresh"`
	Columns         []string    `mapstructure:"show"`
	Debug           bool        `mapstructure:"debug"`
	Chain           string      `mapstructure:"chain"`
	Fiat            string      `mapstructure:"fiat"`
	ReferenceAsset  string      `mapstructure:"reference_asset"`
	FallbackSources []string    `mapstructure:"fallback_sources"`
	StaleSeconds    int         `mapstructure:"stale_seconds"`
	ForceReload     bool        `mapstructure:"force"`
	Cache           CacheConfig `mapstructure:"cache"`

	// Command and its arguments, from the command line only
	Command string   `mapstructure:"-"`
	Args    []string `mapstructure:"-"`
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) Staleness() time.Duration {
	return time.Duration(c.StaleSeconds) * time.Second
}

func (c *Config) UseRedis() bool {
	return strings.EqualFold(c.Cache.Backend, "redis")
}
