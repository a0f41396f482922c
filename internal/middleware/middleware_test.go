package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/vehicle-advertisement/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": []string{"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
    if err != nil {
        t.Fatalf("encode: %v", err)
    }
    status, got, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"items":[]}` {
        t.Fatalf("unexpected decode: %d %v %q %v", status, got, body, ok)
    }
    if _, _, _, ok := decodePayload(bs[:6]); ok {
        t.Fatalf("truncated payload must not decode")
    }
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}
    key := func(target string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath("/v1/listings")
        return cacheKeyFrom(cfg, c)
    }
    a := key("/v1/listings?state=draft")
    b := key("/v1/listings?state=published")
    if a == b {
        t.Fatalf("different queries must not share a key")
    }
    if !strings.HasPrefix(a, "p:") {
        t.Fatalf("key %q lacks prefix", a)
    }
    if a != key("/v1/listings?state=draft") {
        t.Fatalf("key must be stable")
    }
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
    e := echo.New()
    mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
    err := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })(c)
    if err != nil || rec.Body.String() != "ok" || rec.Header().Get("X-Cache") != "" {
        t.Fatalf("expected passthrough, got err=%v body=%q", err, rec.Body.String())
    }
}

func TestLocalTokenBucketBlocksAfterCapacity(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "rl",
    }
    e := echo.New()
    e.Use(NewTokenBucket(cfg, nil))
    e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

    do := func(ip string) *httptest.ResponseRecorder {
        req := httptest.NewRequest(http.MethodGet, "/ping", nil)
        req.RemoteAddr = ip + ":1234"
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        return rec
    }
    for i := 0; i < 2; i++ {
        if rec := do("10.0.0.1"); rec.Code != http.StatusOK {
            t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
        }
    }
    rec := do("10.0.0.1")
    if rec.Code != http.StatusTooManyRequests {
        t.Fatalf("expected 429, got %d", rec.Code)
    }
    if rec.Header().Get("Retry-After") == "" {
        t.Fatalf("expected Retry-After header")
    }
    if rec := do("10.0.0.2"); rec.Code != http.StatusOK {
        t.Fatalf("other clients must have their own bucket, got %d", rec.Code)
    }
}

func TestLocalBucketsForgetIdleKeys(t *testing.T) {
    now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    b := newLocalBuckets(config.RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Minute})
    b.now = func() time.Time { return now }
    if _, _, ok := b.reserve("a"); !ok {
        t.Fatalf("first request must pass")
    }
    if _, retry, ok := b.reserve("a"); ok || retry <= 0 {
        t.Fatalf("second request must be blocked with a retry delay")
    }
    now = now.Add(2 * time.Minute)
    b.reserve("b")
    if _, found := b.buckets["a"]; found {
        t.Fatalf("idle bucket should have been swept")
    }
}
