// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

const (
	rateKeyPrefix = "ratelimit:ip:"

	localBucketCap = 10_000
	minBucketIdle  = 10 * time.Minute
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter is the fixed gate in front of the API. It counts in Redis when
// Redis is configured and in per-process token buckets otherwise, or while
// Redis is failing. Local counts are per replica.
type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

func NewRateLimiter(rdb *core.Redis, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local:  newLocalBuckets(cfg.Limit),
		config: cfg,
	}
	if rdb.Available() {
		rl.redis = redis_rate.NewLimiter(rdb.Cmd())
	}

	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter unavailable, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSON(w, http.StatusServiceUnavailable, core.Envelope{
				Message: "service unavailable",
				Code:    "UNAVAILABLE",
			})
			return
		}

		writeLimitHeaders(w.Header(), rl.config.Limit, res)

		if res.Allowed == 0 {
			rejectRequest(w, res.RetryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.redis != nil {
		res, err := rl.redis.Allow(ctx, key, rl.config.Limit)
		if err == nil {
			return res, nil
		}
		slog.Debug("redis rate limit failed, using local bucket", "error", err)
	}
	return rl.local.allow(key), nil
}

// KeyByIP trusts the proxy-appended (last) X-Forwarded-For entry, then
// X-Real-IP, then the socket address.
func KeyByIP(r *http.Request) string {
	return rateKeyPrefix + clientIP(r)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// KeyByIPAndEndpoint buckets credential endpoints separately from general
// browsing so a burst of logins cannot starve the catalog.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + normalizeEndpoint(r.URL.Path)
}

// normalizeEndpoint folds ids out of the path so every book or review
// shares one bucket per route.
func normalizeEndpoint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if core.IsUUID(seg) || isDigits(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeLimitHeaders(h http.Header, limit redis_rate.Limit, res *redis_rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func rejectRequest(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := max(int(retryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	core.JSON(w, http.StatusTooManyRequests, core.Envelope{
		Message: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", seconds),
		Code:    "RATE_LIMITED",
	})
}

// localBuckets keeps one token bucket per key. Idle buckets expire only
// once they would have refilled completely anyway.
type localBuckets struct {
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *rate.Limiter]
	limit    redis_rate.Limit
	interval time.Duration
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	interval := time.Second
	if limit.Rate > 0 {
		interval = limit.Period / time.Duration(limit.Rate)
	}
	idle := max(interval*time.Duration(limit.Burst), minBucketIdle)

	return &localBuckets{
		buckets:  expirable.NewLRU[string, *rate.Limiter](localBucketCap, nil, idle),
		limit:    limit,
		interval: interval,
	}
}

func (l *localBuckets) allow(key string) *redis_rate.Result {
	l.mu.Lock()
	bucket, ok := l.buckets.Get(key)
	if !ok {
		bucket = rate.NewLimiter(rate.Every(l.interval), l.limit.Burst)
	}
	// Re-adding slides the idle deadline forward.
	l.buckets.Add(key, bucket)
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      l.limit,
		ResetAfter: l.interval,
		RetryAfter: -1,
	}

	if bucket.Allow() {
		res.Allowed = 1
	} else {
		res.RetryAfter = l.interval
	}
	res.Remaining = max(int(bucket.Tokens()), 0)

	return res
}

// PerWindow builds a limit over an arbitrary period, as configured.
func PerWindow(requests, burst int, period time.Duration) redis_rate.Limit {
	if period <= 0 {
		period = time.Minute
	}
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: period,
	}
}
