package middleware

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per authenticated subject. Idle
// buckets are dropped by a background sweep so the map cannot grow
// without bound.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	logger *zap.Logger

	mu       sync.Mutex
	limiters map[string]*subjectLimiter
	stopCh   chan struct{}
}

type subjectLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows roughly perMinute requests per subject with a
// burst of the same size.
func NewRateLimiter(perMinute int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		logger:   logger,
		limiters: make(map[string]*subjectLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Limit rejects requests over the per-subject budget with 429. It must
// run after RequireAuth so the subject id is on the context.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		externalID := ExternalIDFromContext(r.Context())
		if externalID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !rl.limiterFor(externalID).Allow() {
			rl.logger.Warn("rate limit exceeded", zap.String("external_id", externalID))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(externalID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	sl, ok := rl.limiters[externalID]
	if !ok {
		sl = &subjectLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[externalID] = sl
	}
	sl.lastAccess = time.Now()
	return sl.limiter
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-interval)
			rl.mu.Lock()
			for id, sl := range rl.limiters {
				if sl.lastAccess.Before(cutoff) {
					delete(rl.limiters, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}
