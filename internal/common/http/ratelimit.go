// internal/common/http/ratelimit.go
package http

import (
	"net/http"
	"sync"
	"time"

	apperrors "immigria-site/internal/common/errors"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-client token bucket.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      float64
	burst    int
	idle     time.Duration
	now      func() time.Time
}

func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rps,
		burst:    burst,
		idle:     refillTime(rps, burst),
		now:      time.Now,
	}
}

// refillTime is how long an untouched bucket takes to fill up again. A
// client idle for longer is indistinguishable from a new one.
func refillTime(rps float64, burst int) time.Duration {
	if rps <= 0 {
		return time.Hour
	}
	return time.Duration(float64(burst) / rps * float64(time.Second))
}

func (l *Limiter) getLimiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, exists := l.limiters[client]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	l.sweep(now)
	entry := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastSeen: now,
	}
	l.limiters[client] = entry
	return entry.limiter
}

// sweep drops buckets idle long enough to have refilled. Callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	for client, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idle {
			delete(l.limiters, client)
		}
	}
}

// Allow reports whether client may make a request now.
func (l *Limiter) Allow(client string) bool {
	return l.getLimiter(client).AllowN(l.now(), 1)
}

// Middleware rejects POSTs from clients over budget with 429. Other methods
// pass through. Clients are told apart by ClientIP.
func (l *Limiter) Middleware(errs *apperrors.ErrorHandler) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && !l.Allow(ClientIP(r)) {
				errs.WriteJSON(w, r, apperrors.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
