package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Mastel22/boondocks-bn-backend/internal/config"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/metrics"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

const msgRateLimited = "Too many requests, please try again later"

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc picks the client identity; defaults to the client IP
	KeyFunc func(c *gin.Context) string
}

// AuthRateLimitConfig converts the configured auth limit
func AuthRateLimitConfig(limit config.RateLimit) RateLimitConfig {
	return RateLimitConfig{
		Limit:   limit.Requests,
		Window:  limit.Window,
		KeyFunc: clientIPKey,
	}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func (rc RateLimitConfig) keyFunc() func(c *gin.Context) string {
	if rc.KeyFunc != nil {
		return rc.KeyFunc
	}
	return clientIPKey
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	config   RateLimitConfig
	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter creates an in-process limiter allowing Limit requests per Window
// with bursts up to Limit
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Limit < 1 {
		config.Limit = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return &RateLimiter{
		config:   config,
		visitors: make(map[string]*visitor),
	}
}

// Allow reports whether key may make a request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		every := rate.Every(rl.config.Window / time.Duration(rl.config.Limit))
		v = &visitor{limiter: rate.NewLimiter(every, rl.config.Limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.prune(now)
	return v.limiter.AllowN(now, 1)
}

// prune drops clients idle for longer than a window, whose buckets are full again
func (rl *RateLimiter) prune(now time.Time) {
	if len(rl.visitors) < 1024 {
		return
	}
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.config.Window {
			delete(rl.visitors, key)
		}
	}
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	keyFunc := rl.config.keyFunc()
	return func(c *gin.Context) {
		if !rl.Allow(keyFunc(c)) {
			retryAfter := int(rl.config.Window.Seconds()) / rl.config.Limit
			if retryAfter < 1 {
				retryAfter = 1
			}
			rejectRateLimited(c, rl.config.Limit, retryAfter)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, limit, retryAfter int) {
	metrics.RecordRateLimitExceeded(c.FullPath(), c.Request.Method)
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	util.AbortWithAPIError(c, apierrors.RateLimited(msgRateLimited))
}
