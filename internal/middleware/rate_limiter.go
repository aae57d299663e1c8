package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/HicaroDev/obra-vista-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateEntry tracks request counts per key within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateLimiter struct {
	entries map[string]*rateEntry
	mu      sync.Mutex
}

// RateLimiter returns a sliding-window rate limiter keyed by client IP.
// Each call owns its own counters, so an aggressive limit on the import
// endpoint does not eat into the general API budget.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{entries: make(map[string]*rateEntry)}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		entry, exists := rl.entries[ip]
		if !exists {
			entry = &rateEntry{}
			rl.entries[ip] = entry
		}
		rl.mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			// Reset sliding window
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas requisições. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}
