package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter enforces a fixed per-minute request budget per client address.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string]int
	limit    int
}

func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]int),
		limit:    perMinute,
	}
	go rl.resetLoop()
	return rl
}

func (rl *RateLimiter) resetLoop() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		clear(rl.requests)
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		rl.mu.Lock()
		rl.requests[host]++
		count := rl.requests[host]
		rl.mu.Unlock()

		if count > rl.limit {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
