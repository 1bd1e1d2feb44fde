package middleware

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/config"
)

// ErrRateLimited is logged when a client exceeds its request budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimit returns a per-client token bucket limiter. Clients are keyed by
// remote IP, or by the forwarding headers when cfg.TrustHeaders is set.
// Idle limiters expire from an LRU after cfg.TTL.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	cache := expirable.NewLRU[string, *rate.Limiter](cfg.CacheSize, nil, cfg.TTL)

	getLimiter := func(clientKey string) *rate.Limiter {
		limiter, exists := cache.Get(clientKey)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(cfg.Interval), cfg.Burst)
			cache.Add(clientKey, limiter)
		}
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(clientAddr(r, cfg.TrustHeaders))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Rate limit exceeded", ErrRateLimited)
				return
			}

			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Rate limit exceeded", ErrRateLimited)
				return
			}

			tokens := limiter.Tokens()
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%.0f", math.Max(tokens, 0)))

			reset := time.Now()
			if missing := float64(cfg.Burst) - tokens; missing > 0 {
				reset = reset.Add(time.Duration(missing * float64(cfg.Interval)))
			}
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
