package http

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupSchedule        = "@every 30m"
)

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket. Buckets refill completely once
// refillDur has passed; idle buckets are swept on a schedule.
type RateLimiter struct {
	mu        sync.Mutex
	capacity  int
	refillDur time.Duration
	clients   map[string]*clientBucket
	sweeper   *cron.Cron
	now       func() time.Time
}

func NewRateLimiter(capacity int, refillDur time.Duration) (*RateLimiter, error) {
	rl := &RateLimiter{
		capacity:  capacity,
		refillDur: refillDur,
		clients:   make(map[string]*clientBucket),
		sweeper:   cron.New(),
		now:       time.Now,
	}
	if _, err := rl.sweeper.AddFunc(cleanupSchedule, rl.cleanup); err != nil {
		return nil, fmt.Errorf("schedule bucket cleanup: %w", err)
	}
	rl.sweeper.Start()
	return rl, nil
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketCleanupThreshold {
			delete(r.clients, client)
		}
	}
}

// Stop halts the sweep and waits for a running one to finish.
func (r *RateLimiter) Stop() {
	<-r.sweeper.Stop().Done()
}

func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[client]

	if !exists {
		r.clients[client] = &clientBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(bucket.lastRefill) >= r.refillDur {
		bucket.tokens = r.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}
