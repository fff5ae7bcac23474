package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/miraedance/atelier/pkg/response"
)

// limiter tracks fixed-window request counts per client IP and evicts stale
// windows as a side effect of lookups, so no background goroutine is needed.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	counts  map[string]int
	resets  map[string]time.Time
	sweepAt time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	return &limiter{
		max:     max,
		window:  window,
		counts:  map[string]int{},
		resets:  map[string]time.Time{},
		sweepAt: time.Now().Add(window),
	}
}

func (l *limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.sweepAt) {
		for k, reset := range l.resets {
			if now.After(reset) {
				delete(l.resets, k)
				delete(l.counts, k)
			}
		}
		l.sweepAt = now.Add(l.window)
	}

	if reset, ok := l.resets[ip]; !ok || now.After(reset) {
		l.counts[ip] = 0
		l.resets[ip] = now.Add(l.window)
	}

	l.counts[ip]++
	return l.counts[ip] <= l.max
}

// RateLimit limits each client IP to max requests per window.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			if !l.allow(ip) {
				response.TooManyRequests(w, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
