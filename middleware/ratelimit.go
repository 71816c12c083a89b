package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"photo-portfolio-platform/internal/config"
	"photo-portfolio-platform/utils"
)

// RateLimitMiddleware limits requests per IP + endpoint combination using
// Redis counters. When Redis is unreachable it degrades to a per-process
// token bucket instead of failing open entirely.
func RateLimitMiddleware(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	fallback := newLocalLimiter(cfg)

	return func(c *gin.Context) {
		if c.FullPath() == "/health" {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		ctx := context.Background()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			if !fallback.allow(c.ClientIP()) {
				rejectRateLimited(c, cfg.RateLimitWindow, cfg.RateLimitReqs)
				return
			}
			c.Next()
			return
		}

		// Set expiration on first request
		if count == 1 {
			rdb.Expire(ctx, key, time.Duration(cfg.RateLimitWindow)*time.Second)
		}

		if count > int64(cfg.RateLimitReqs) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitReqs))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(
				time.Now().Add(time.Duration(cfg.RateLimitWindow)*time.Second).Unix(), 10))
			rejectRateLimited(c, cfg.RateLimitWindow, cfg.RateLimitReqs)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.RateLimitReqs-int(count)))
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, window, limit int) {
	utils.RespondWithError(c, http.StatusTooManyRequests,
		"rate_limit_exceeded",
		"Too many requests. Please try again later.",
		gin.H{
			"retry_after": window,
			"limit":       limit,
		})
	c.Abort()
}

// localLimiter is the in-process fallback: one token bucket per client IP.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLocalLimiter(cfg *config.Config) *localLimiter {
	// A zero window would make the per-second rate infinite and disable
	// the fallback entirely.
	window := cfg.RateLimitWindow
	if window < 1 {
		window = 1
	}
	perSecond := float64(cfg.RateLimitReqs) / float64(window)
	burst := cfg.RateLimitReqs / 4
	if burst < 1 {
		burst = 1
	}
	return &localLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *localLimiter) allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
