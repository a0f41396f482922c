package config

import "time"

// RateLimitConfig configures the per-client token bucket.  With Redis the
// bucket is shared across instances; without it each process keeps its own.
type RateLimitConfig struct {
    Enabled        bool          // RATE_LIMIT_ENABLED
    Capacity       int           // RATE_LIMIT_CAPACITY (alias RATE_LIMIT_BURST)
    RefillTokens   int           // RATE_LIMIT_REFILL_TOKENS added every RefillInterval
    RefillInterval time.Duration // RATE_LIMIT_REFILL_INTERVAL
    TTL            time.Duration // RATE_LIMIT_TTL; idle buckets are dropped after this
    KeyStrategy    string        // RATE_LIMIT_KEY_STRATEGY: ip, route, ip_route
    Prefix         string        // RATE_LIMIT_PREFIX for Redis keys
    Debug          bool          // RATE_LIMIT_DEBUG adds the bucket key to responses
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to
// usable values.  RATE_LIMIT_REFILL_EVERY is a shorthand for one token per
// interval.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_BURST", envInt("RATE_LIMIT_CAPACITY", 60)),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "vad:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
        cfg.RefillTokens, cfg.RefillInterval = 1, every
    }
    cfg.Capacity = max(cfg.Capacity, 1)
    cfg.RefillTokens = max(cfg.RefillTokens, 1)
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // A bucket must outlive a full refill cycle or clients get a fresh one early.
    cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
    return cfg
}
