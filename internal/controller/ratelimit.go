package controller

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter token bucket на каждый ключ (адрес клиента).
// Неактивные ключи периодически удаляются.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	disabled bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewKeyedRateLimiter rps <= 0 отключает ограничение
func NewKeyedRateLimiter(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    max(burst, 1),
		disabled: rps <= 0,
		done:     make(chan struct{}),
	}

	go krl.cleanup(limiterCleanupInterval)

	return krl
}

// Allow не блокирует: true если запрос по ключу укладывается в лимит
func (krl *KeyedRateLimiter) Allow(key string) bool {
	if krl.disabled {
		return true
	}
	return krl.getLimiter(key, time.Now()).Allow()
}

func (krl *KeyedRateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	entry, exists := krl.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evictIdle удаляет ключи, не появлявшиеся дольше ttl
func (krl *KeyedRateLimiter) evictIdle(now time.Time, ttl time.Duration) int {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	removed := 0
	for key, entry := range krl.limiters {
		if now.Sub(entry.lastSeen) > ttl {
			delete(krl.limiters, key)
			removed++
		}
	}
	return removed
}

func (krl *KeyedRateLimiter) size() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// Stop останавливает очистку, идемпотентен
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case now := <-ticker.C:
			krl.evictIdle(now, limiterIdleTTL)
		}
	}
}

// RateLimit отвечает 429, когда клиент превысил лимит
func RateLimit(limiter *KeyedRateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					zap.String("client", key),
					zap.String("path", r.URL.Path))
				writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
					Error: "Too many requests",
					Code:  CodeRateLimited,
				}, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey адрес клиента без порта; RemoteAddr уже переписан middleware.RealIP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
