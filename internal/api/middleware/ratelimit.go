package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client. A bucket refills
// RateLimitRequests tokens per RateLimitWindow and allows that many in a burst.
type rateLimiter struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	window  time.Duration
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   requests,
		window:  window,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, client := range rl.clients {
			if now.Sub(client.lastSeen) > rl.window {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *rateLimiter) isAllowed(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[key]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// RateLimitMiddleware bounds how often one client can make the service spawn
// external tools.
func RateLimitMiddleware(cfg *config.APIConfig) gin.HandlerFunc {
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.isAllowed(key) {
			appErr := utils.NewRateLimitError()
			utils.LogWarn(c.Request.Context(), "Rate limit exceeded", utils.Fields{
				"ip": key,
			})
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      appErr.Message,
				"code":       appErr.Code,
				"request_id": c.GetString("request_id"),
			})
			return
		}

		c.Next()
	}
}
