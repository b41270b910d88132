// CBarrera | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cbarrera-dev/storefront/internal/config"
	"github.com/cbarrera-dev/storefront/internal/core"
)

// Sellers upload product images on catalog writes, so their authenticated
// allowance is scaled up relative to regular accounts.
const sellerLimitFactor = 3

// RateLimiter throttles requests using a Redis-backed sliding window, with
// an in-process token bucket fallback when Redis is down.
type RateLimiter struct {
	limiter *redis_rate.Limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger

	mu    sync.Mutex
	local map[string]*localLimiter
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		limiter: redis_rate.NewLimiter(client),
		cfg:     cfg,
		logger:  logger,
		local:   make(map[string]*localLimiter),
	}
	go rl.cleanupLocal()
	return rl
}

// Handler limits by client IP. It runs ahead of authentication, so every
// request counts against the caller's address.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return rl.throttle(next, func(r *http.Request) (string, redis_rate.Limit) {
		return ipKey(r), rl.baseLimit()
	})
}

// Authenticated limits by user id with a role-scaled allowance. Install it
// behind the authenticator; without an identity it falls back to IP keying.
func (rl *RateLimiter) Authenticated(next http.Handler) http.Handler {
	return rl.throttle(next, rl.authScope)
}

func (rl *RateLimiter) throttle(
	next http.Handler,
	scope func(*http.Request) (string, redis_rate.Limit),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key, limit := scope(r)
		res, err := rl.limiter.Allow(r.Context(), key, limit)
		if err != nil {
			// Redis outage falls back to in-process limiting so the API
			// stays up but is still not wide open.
			rl.logger.Warn("rate limiter redis unavailable, using local fallback", "error", err)
			if !rl.allowLocal(key, limit) {
				rl.reject(w, limit, 0, rl.cfg.Window)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			rl.reject(w, limit, res.Remaining, res.RetryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) baseLimit() redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rl.cfg.Requests,
		Burst:  rl.cfg.Burst,
		Period: rl.cfg.Window,
	}
}

func (rl *RateLimiter) limitFor(role string) redis_rate.Limit {
	limit := rl.baseLimit()
	if role == roleSeller {
		limit.Rate *= sellerLimitFactor
		limit.Burst *= sellerLimitFactor
	}
	return limit
}

func (rl *RateLimiter) authScope(r *http.Request) (string, redis_rate.Limit) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		return ipKey(r), rl.baseLimit()
	}

	role, _ := GetRole(r.Context())
	return "ratelimit:user:" + userID, rl.limitFor(role)
}

func ipKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

func (rl *RateLimiter) allowLocal(key string, limit redis_rate.Limit) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ll, ok := rl.local[key]
	if !ok {
		perSecond := rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
		ll = &localLimiter{
			limiter: rate.NewLimiter(perSecond, limit.Burst),
		}
		rl.local[key] = ll
	}
	ll.lastSeen = time.Now()

	return ll.limiter.Allow()
}

func (rl *RateLimiter) cleanupLocal() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, ll := range rl.local {
			if time.Since(ll.lastSeen) > 10*time.Minute {
				delete(rl.local, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) reject(
	w http.ResponseWriter,
	limit redis_rate.Limit,
	remaining int,
	retryAfter time.Duration,
) {
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
	core.WriteJSON(w, http.StatusTooManyRequests, core.Envelope{
		Success: false,
		Message: "too many requests",
	})
}
