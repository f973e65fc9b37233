package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/wolfman30/booking-gateway/internal/httpapi"
)

// RateLimiter throttles callers by IP with a token bucket per source. A
// caller may burst up to burst requests and then refills at rate tokens
// per second.
type RateLimiter struct {
	mu      sync.Mutex
	sources map[string]*tokenBucket
	rate    float64
	burst   float64
	now     func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a limiter allowing rate requests/sec with the given
// burst size per source IP.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		sources: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   float64(burst),
		now:     time.Now,
	}
	// Evict idle sources so the bucket map does not grow unbounded.
	go rl.evictIdle(5*time.Minute, 10*time.Minute)
	return rl
}

// Allow reports whether a request from ip fits within the limit, consuming
// one token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.sources[ip]
	if !ok {
		b = &tokenBucket{tokens: rl.burst, seen: now}
		rl.sources[ip] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) evictIdle(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-idle)
		for ip, b := range rl.sources {
			if b.seen.Before(cutoff) {
				delete(rl.sources, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects requests over the configured per-IP rate with a 429 and
// the gateway's structured error body.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				httpapi.Error(w, http.StatusTooManyRequests, httpapi.KindTooManyRequests,
					"rate limit exceeded, slow down and retry")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the X-Real-Ip header set by chi's RealIP middleware and
// falls back to the connection's remote address.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
