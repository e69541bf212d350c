package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cuaderno/pkg/response"
)

type ipEntry struct {
	count     int
	windowEnd time.Time
}

// loginLimiter counts attempts per client IP in fixed windows. Expired
// entries are swept at most once per window.
type loginLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*ipEntry
	nextSweep time.Time
}

func newLoginLimiter(limit int, window time.Duration) *loginLimiter {
	return &loginLimiter{limit: limit, window: window, entries: make(map[string]*ipEntry)}
}

// allow records an attempt from ip and reports whether it is within the limit.
func (l *loginLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !now.Before(l.nextSweep) {
		for k, e := range l.entries {
			if now.After(e.windowEnd) {
				delete(l.entries, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &ipEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit
}

// LoginRateLimiter limits login attempts to limit per window per client IP.
func LoginRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLoginLimiter(limit, window)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, "Too many login attempts, try again later"))
			return
		}
		c.Next()
	}
}
