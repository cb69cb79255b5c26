// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	gocache "github.com/patrickmn/go-cache"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	counts *gocache.Cache
	limit  int
	window time.Duration
}

// New allows limit requests per key in each window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		counts: gocache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	if l.counts.Add(key, 1, l.window) == nil {
		return l.limit > 0
	}
	n, err := l.counts.IncrementInt(key, 1)
	if err != nil {
		// Window expired between Add and Increment.
		l.counts.Set(key, 1, l.window)
		return l.limit > 0
	}
	return n <= l.limit
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	v, ok := l.counts.Get(key)
	if !ok {
		return l.limit
	}
	if left := l.limit - v.(int); left > 0 {
		return left
	}
	return 0
}

// Reset clears the count for key.
func (l *Limiter) Reset(key string) {
	l.counts.Delete(key)
}

// Middleware rejects requests over the limit by calling reject. Requests
// are keyed by the signed-in user, or by client IP when nobody is signed in.
func (l *Limiter) Middleware(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(Key(r)) {
				w.Header().Set("Retry-After", retryAfter(l.window))
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Key identifies the caller of r.
func Key(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok && u.ID != "" {
		return "user:" + u.ID
	}
	return "ip:" + ClientIP(r)
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

func retryAfter(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
