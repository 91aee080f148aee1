package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepInterval is how often idle per-client limiters are dropped.
const sweepInterval = 10 * time.Minute

// visitorLimiter hands out one token-bucket limiter per client key.
type visitorLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func (v *visitorLimiter) get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	limiter, ok := v.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(v.rate, v.burst)
		v.limiters[key] = limiter
	}
	return limiter
}

// sweep drops limiters whose bucket has tokens again. Clients still under
// pressure keep their entry; idle ones are re-admitted with a fresh bucket
// on their next request.
func (v *visitorLimiter) sweep() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for key, limiter := range v.limiters {
		if limiter.Allow() {
			delete(v.limiters, key)
		}
	}
}

// NewRateLimitHandler returns a middleware that applies a per-client-IP token
// bucket: burst requests pass immediately, refilling at r tokens per second.
// Clients over the limit receive 429 Too Many Requests. Wire it after chi's
// RealIP middleware so the key reflects the real client address. A background
// goroutine sweeps idle buckets every 10 minutes.
func NewRateLimitHandler(r rate.Limit, burst int) func(http.Handler) http.Handler {
	v := &visitorLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			v.sweep()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !v.get(clientIP(req)).Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// clientIP strips the port from RemoteAddr. RealIP has already rewritten it
// to the forwarded address when the server runs behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
