package controller

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_PerKey(t *testing.T) {
	krl := NewKeyedRateLimiter(0.001, 2)
	defer krl.Stop()

	assert.True(t, krl.Allow("a"))
	assert.True(t, krl.Allow("a"))
	assert.False(t, krl.Allow("a"))

	// у другого ключа свой бакет
	assert.True(t, krl.Allow("b"))
}

func TestKeyedRateLimiter_Disabled(t *testing.T) {
	krl := NewKeyedRateLimiter(0, 0)
	defer krl.Stop()

	for range 100 {
		assert.True(t, krl.Allow("a"))
	}
	assert.Zero(t, krl.size())
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	krl := NewKeyedRateLimiter(1, 1)
	defer krl.Stop()

	now := time.Now()
	krl.getLimiter("old", now.Add(-time.Hour))
	krl.getLimiter("fresh", now)

	assert.Equal(t, 1, krl.evictIdle(now, limiterIdleTTL))
	assert.Equal(t, 1, krl.size())
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	krl := NewKeyedRateLimiter(1, 1)

	krl.Stop()
	krl.Stop()
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientKey(req))

	req.RemoteAddr = "10.0.0.2"
	assert.Equal(t, "10.0.0.2", clientKey(req))
}
