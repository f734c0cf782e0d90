package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coworking-space/internal/config"
	"github.com/iliyamo/coworking-space/internal/logging"
)

// tokenBucket refills RefillTokens every RefillInterval up to capacity and
// takes one token per call. Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key (see buildRateKey). Redis errors
// fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := logging.FromContext(ctx)
			key := buildRateKey(cfg, c)
			args := []any{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := tokenBucket.Run(ctx, rdb, []string{key}, args...).Slice()
			if err != nil || len(vals) != 3 {
				log.Warn("rate limit check failed", "key", key, "err", err, "result", vals)
				return next(c)
			}
			allowed := fmt.Sprint(vals[0]) == "1"
			remaining := asInt64(vals[1])
			retryMs := asInt64(vals[2])

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000))
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Info("rate limited", "key", key, "retry_after_s", secs)
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many requests, retry later"})
			}
			return next(c)
		}
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", userKey(c))
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default: // ip_user_route
		parts = append(parts, "ip", ip, "user", userKey(c), "route", route)
	}
	return strings.Join(parts, ":")
}
