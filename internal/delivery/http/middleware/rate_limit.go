package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/pkg/logger"
	"cvchef-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window budget.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// KeyFunc picks the bucket; defaults to the caller's user id, then IP.
	KeyFunc func(*gin.Context) string
	// FailClosed rejects requests when Redis errors instead of counting in memory.
	FailClosed bool
}

// windowCounter increments the hit count for key and reports when the
// current window ends.
type windowCounter interface {
	hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// INCR and set the TTL on the first hit so the window is fixed.
var windowScript = goredis.NewScript(`
local hits = redis.call('INCR', KEYS[1])
if hits == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {hits, redis.call('TTL', KEYS[1])}
`)

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	res, err := windowScript.Run(ctx, r.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	return int(res[0]), time.Now().Add(time.Duration(res[1]) * time.Second), nil
}

type memoryBucket struct {
	mu      sync.Mutex
	hits    int
	resetAt time.Time
}

// memoryCounter serves single-instance deployments and Redis outages.
type memoryCounter struct {
	buckets sync.Map
	now     func() time.Time
}

var (
	localCounter = &memoryCounter{now: time.Now}
	sweepOnce    sync.Once
)

func (m *memoryCounter) hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := m.now()
	v, _ := m.buckets.LoadOrStore(key, &memoryBucket{resetAt: now.Add(window)})
	b := v.(*memoryBucket)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !now.Before(b.resetAt) {
		b.hits = 0
		b.resetAt = now.Add(window)
	}
	b.hits++
	return b.hits, b.resetAt, nil
}

// sweep drops buckets whose window has ended.
func (m *memoryCounter) sweep() {
	now := m.now()
	m.buckets.Range(func(key, v interface{}) bool {
		b := v.(*memoryBucket)
		b.mu.Lock()
		expired := now.After(b.resetAt)
		b.mu.Unlock()
		if expired {
			m.buckets.Delete(key)
		}
		return true
	})
}

func startSweeper() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			localCounter.sweep()
		}
	}()
}

// userOrIP keys authenticated callers by identity so users behind one NAT do
// not share a budget.
func userOrIP(c *gin.Context) string {
	if id := UserID(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// GlobalRateLimitConfig covers every route. It runs before authentication so
// it keys by IP.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:global:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// AIRateLimitConfig guards the endpoints that call the completion service.
func AIRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ai:", KeyFunc: userOrIP}
}

// ExportRateLimitConfig guards PDF rendering, which starts a browser.
func ExportRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:export:", KeyFunc: userOrIP}
}

// RateLimitMiddleware counts in Redis when it is connected and in process
// memory otherwise.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	sweepOnce.Do(startSweeper)
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = userOrIP
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var counter windowCounter = localCounter
		if client := redis.Client(); client != nil {
			counter = redisCounter{client: client}
		}

		hits, resetAt, err := counter.hit(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.Log.Warn("Rate limit store unavailable", "error", err, "key_prefix", cfg.KeyPrefix)
			if cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			hits, resetAt, _ = localCounter.hit(c.Request.Context(), key, cfg.Window)
		}

		remaining := cfg.Limit - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if hits > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.Log.Warn("Rate limit triggered",
				"key_prefix", cfg.KeyPrefix,
				"client_ip", c.ClientIP(),
				"path", c.FullPath(),
				"request_id", c.GetString("RequestID"),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
