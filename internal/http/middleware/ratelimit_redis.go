package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"crypto_cashier/internal/logger"
	"crypto_cashier/internal/metrics"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters fall back to in-process buckets.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("REDIS_ADDR not set, using in-process rate limiter")
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiter", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	SetRedisClient(client)
	logger.Info("redis rate limiter ready", "addr", addr)
}

// SetRedisClient swaps the shared client; nil disables Redis.
func SetRedisClient(c *redis.Client) {
	redisMu.Lock()
	redisClient = c
	redisMu.Unlock()
}

var redisMu sync.RWMutex

func currentRedis() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// RedisPing reports whether the shared client is reachable.
func RedisPing(ctx context.Context) error {
	client := currentRedis()
	if client == nil {
		return errors.New("redis not connected, using in-process limiter")
	}
	return client.Ping(ctx).Err()
}

// keyFunc identifies the caller a limit applies to
type keyFunc func(c *gin.Context) string

func byIP(c *gin.Context) string {
	return c.ClientIP()
}

// byPrincipal limits authenticated callers per account, anonymous ones per IP.
func byPrincipal(c *gin.Context) string {
	if p, ok := CurrentPrincipal(c); ok {
		return "user:" + p.UserID
	}
	return c.ClientIP()
}

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<scope>:<window_seconds>:<ip>
func RedisRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return rateLimit(scope, maxRequests, window, byIP)
}

// PrincipalRateLimit is RedisRateLimit keyed by the authenticated account.
// Requires Auth to run before this.
func PrincipalRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return rateLimit(scope, maxRequests, window, byPrincipal)
}

func rateLimit(scope string, maxRequests int, window time.Duration, key keyFunc) gin.HandlerFunc {
	local := newLocalLimiter(maxRequests, window)
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		ident := key(c)
		endpoint := scope + ":" + c.FullPath()

		client := currentRedis()
		if client == nil {
			if !local.allow(ident) {
				blocked(c, endpoint, window)
				return
			}
			metrics.RLRequests.WithLabelValues(endpoint).Inc()
			c.Next()
			return
		}

		redisKey := "rl:" + scope + ":" + windowSecs + ":" + ident
		ctx := c.Request.Context()

		val, err := client.Incr(ctx, redisKey).Result()
		if err != nil {
			// on Redis error, fail over to the local bucket and flag it
			c.Header("X-RateLimit-Error", "redis-error")
			if !local.allow(ident) {
				blocked(c, endpoint, window)
				return
			}
			c.Next()
			return
		}

		if val == 1 {
			// first increment, set expiry
			client.Expire(ctx, redisKey, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			blocked(c, endpoint, window)
			return
		}

		metrics.RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}

func blocked(c *gin.Context, endpoint string, window time.Duration) {
	metrics.RLBlocked.WithLabelValues(endpoint).Inc()
	c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
		"code":  "rate_limited",
	})
}
