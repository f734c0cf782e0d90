package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache placed in front of the public
// catalogue endpoints (spaces, events, reviews). Entries are keyed by
// Prefix plus a hash of the parts selected by KeyStrategy.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string // route | route_query | method_route_query
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range envList("CACHE_METHODS", "GET") {
		methods[strings.ToUpper(m)] = true
	}
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methods,
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cowork:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
