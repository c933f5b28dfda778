package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolViz/pkg/errors"
	"github.com/turtacn/MolViz/pkg/types/common"
)

// RateLimitInfo is the limiter state reported for one key.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter is an in-memory token bucket per key. Idle buckets
// are dropped by a background sweep.
type TokenBucketLimiter struct {
	rate   float64
	burst  int
	now    func() time.Time
	mu     sync.RWMutex
	bucket map[string]*tokenBucket
	stop   chan struct{}
	once   sync.Once
}

// NewTokenBucketLimiter allows rate requests per second with bursts up to
// burst. A zero cleanupInterval disables the sweep.
func NewTokenBucketLimiter(rate float64, burst int, cleanupInterval time.Duration) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &TokenBucketLimiter{
		rate:   rate,
		burst:  burst,
		now:    time.Now,
		bucket: make(map[string]*tokenBucket),
		stop:   make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go l.sweepLoop(cleanupInterval)
	}
	return l
}

// Allow takes one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.RLock()
	b, ok := l.bucket[key]
	l.mu.RUnlock()
	if !ok {
		l.mu.Lock()
		if b, ok = l.bucket[key]; !ok {
			b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
			l.bucket[key] = b
		}
		l.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.lastRefill = now

	info := RateLimitInfo{Limit: l.burst}
	if l.rate > 0 {
		info.ResetAt = now.Add(time.Duration(float64(time.Second) / l.rate))
	}
	if b.tokens < 1 {
		return false, info
	}
	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// Len returns the number of tracked keys.
func (l *TokenBucketLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bucket)
}

// Stop ends the background sweep. Safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *TokenBucketLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(interval)
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets that are full and untouched for longer than idle.
func (l *TokenBucketLimiter) sweep(idle time.Duration) {
	threshold := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.bucket {
		b.mu.Lock()
		if b.lastRefill.Before(threshold) && b.tokens >= float64(l.burst)-1 {
			delete(l.bucket, key)
		}
		b.mu.Unlock()
	}
}

// RateLimitKey picks the limiter key: the session when one is assigned,
// otherwise the client address.
func RateLimitKey(c *gin.Context) string {
	if sid := GetSessionID(c); sid != "" {
		return "session:" + sid
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over the limiter's budget with 429 and a
// Retry-After header. It is mounted on the coordinate-generating routes only.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, info := limiter.Allow(RateLimitKey(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		if allowed {
			c.Next()
			return
		}

		retry := time.Until(info.ResetAt).Seconds()
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(int(retry)))
		resp := common.NewErrorResponse(errors.CodeRateLimited.String(), errors.DefaultMessageForCode(errors.CodeRateLimited))
		resp.RequestID = GetRequestID(c)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
	}
}

//Personal.AI order the ending
