package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// AttemptCounter keeps fixed-window counters keyed by string.
type AttemptCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type RedisAttemptCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisAttemptCounter(client *redis.Client, prefix string) *RedisAttemptCounter {
	return &RedisAttemptCounter{client: client, prefix: prefix}
}

func (c *RedisAttemptCounter) Count(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, c.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Incr bumps the counter. The window starts at the first attempt and is not
// extended by later ones.
func (c *RedisAttemptCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, c.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.client.Expire(ctx, c.prefix+key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *RedisAttemptCounter) Reset(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// MemoryAttemptCounter is the single-process fallback used when Redis is not
// configured.
type MemoryAttemptCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*attemptWindow
}

type attemptWindow struct {
	count   int64
	expires time.Time
}

func NewMemoryAttemptCounter() *MemoryAttemptCounter {
	return &MemoryAttemptCounter{now: time.Now, entries: make(map[string]*attemptWindow)}
}

func (c *MemoryAttemptCounter) Count(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w := c.live(key); w != nil {
		return w.count, nil
	}
	return 0, nil
}

func (c *MemoryAttemptCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.live(key)
	if w == nil {
		w = &attemptWindow{expires: c.now().Add(window)}
		c.entries[key] = w
	}
	w.count++
	return w.count, nil
}

func (c *MemoryAttemptCounter) Reset(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Sweep drops every expired window and reports how many were removed.
func (c *MemoryAttemptCounter) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, w := range c.entries {
		if !now.Before(w.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is cancelled, so keys that
// are never touched again do not accumulate.
func (c *MemoryAttemptCounter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Len is the number of windows currently held, expired or not.
func (c *MemoryAttemptCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// live returns the unexpired window for key. Callers hold mu.
func (c *MemoryAttemptCounter) live(key string) *attemptWindow {
	w, ok := c.entries[key]
	if !ok {
		return nil
	}
	if !c.now().Before(w.expires) {
		delete(c.entries, key)
		return nil
	}
	return w
}

// LoginLimiter refuses logins for an email after maxAttempts failures inside
// window. Counter errors fail open.
type LoginLimiter struct {
	counter     AttemptCounter
	maxAttempts int64
	window      time.Duration
	log         logrus.FieldLogger
}

func NewLoginLimiter(counter AttemptCounter, maxAttempts int, window time.Duration, log logrus.FieldLogger) *LoginLimiter {
	return &LoginLimiter{
		counter:     counter,
		maxAttempts: int64(maxAttempts),
		window:      window,
		log:         log,
	}
}

func loginKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *LoginLimiter) Allowed(ctx context.Context, email string) bool {
	if l.maxAttempts <= 0 {
		return true
	}
	n, err := l.counter.Count(ctx, loginKey(email))
	if err != nil {
		l.log.WithError(err).Warn("login limiter unavailable")
		return true
	}
	return n < l.maxAttempts
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	n, err := l.counter.Incr(ctx, loginKey(email), l.window)
	if err != nil {
		l.log.WithError(err).Warn("login limiter unavailable")
		return
	}
	if n == l.maxAttempts {
		l.log.WithField("email", loginKey(email)).Warn("login attempts exhausted")
	}
}

func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if err := l.counter.Reset(ctx, loginKey(email)); err != nil {
		l.log.WithError(err).Warn("login limiter unavailable")
	}
}

// RetryAfter is the window length, reported to throttled clients.
func (l *LoginLimiter) RetryAfter() time.Duration {
	return l.window
}
