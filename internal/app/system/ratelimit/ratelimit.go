// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/jonboulle/clockwork"
)

// Limiter is a fixed-window counter per key. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	clock    clockwork.Clock
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter allowing limit requests per key per duration.
func New(limit int, duration time.Duration, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		clock:    clock,
	}
}

// Allow records a request for key and reports whether it is within limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key has left in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.clock.Now().After(w.expiresAt) {
		return l.limit
	}
	if r := l.limit - w.count; r > 0 {
		return r
	}
	return 0
}

// Reset clears key's window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Sweep drops expired windows and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	n := 0
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
			n++
		}
	}
	return n
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-IP, or the
// RemoteAddr host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Middleware rejects requests over l's per-IP limit with 429.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r)) {
				w.Header().Set("Retry-After", retryAfter(l.duration))
				httpjson.Write(w, http.StatusTooManyRequests, httpjson.ErrorBody{
					Error: "too many attempts; try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfter(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

