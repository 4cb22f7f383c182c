package gateway

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sharekit-app/sharekit-backend/api/middleware"
	"github.com/sharekit-app/sharekit-backend/api/responses"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
)

// RateLimiter throttles callers at the gateway edge. Requests carrying the
// sharer header are keyed per user, anonymous routes fall back to the
// client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logg     *logger.Logger
}

// NewRateLimiter allows `limit` requests per `window` with a burst of the
// same size.
func NewRateLimiter(limit int, window time.Duration, logg *logger.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		logg:     logg,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Handler is the throttling middleware.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(middleware.HeaderUserID)
		if key == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			key = host
		}

		if !rl.getLimiter(key).Allow() {
			if rl.logg != nil {
				ctx := rl.logg.WithField(r.Context(), "limit_key", key)
				rl.logg.Warn(ctx, "gateway.rate_limit.exceeded")
			}
			w.Header().Set("Retry-After", "1")
			responses.WriteErrorStatus(r.Context(), nil, w, http.StatusTooManyRequests,
				pkgerrors.New(pkgerrors.CodeValidation, "too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
