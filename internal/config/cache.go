package config

import "time"

// CacheConfig drives the Redis response cache in front of the read
// endpoints (dealer list, listing queries).
type CacheConfig struct {
    Enabled      bool            // CACHE_ENABLED; also off when Redis is unavailable
    Methods      map[string]bool // CACHE_METHODS; requests with other methods invalidate
    TTL          time.Duration   // CACHE_TTL; upper bound on staleness after a write
    KeyStrategy  string          // CACHE_KEY_STRATEGY: route, route_query, method_route, method_route_query
    Prefix       string          // CACHE_PREFIX; every entry lives under Prefix + ":"
    MaxBodyBytes int             // CACHE_MAX_BODY_BYTES; larger responses are not stored
}

// LoadCacheConfig reads CACHE_* variables.  Listing queries differ only by
// their dealer_id and state parameters, so the default key includes the
// query string.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      envList("CACHE_METHODS", "GET"),
        TTL:          envDur("CACHE_TTL", 10*time.Second),
        KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       getenv("CACHE_PREFIX", "vad:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 10 * time.Second
    }
    return cfg
}
