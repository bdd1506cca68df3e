package memo

import "time"

// Option applies a configuration option to a Memo.
type Option func(*config)

type config struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// WithTTL sets how long a loaded value is served before reloading.
// A TTL <= 0 disables memoization: every Get calls its loader.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithMaxSize bounds the number of entries. When full, the oldest stored
// entry is evicted. maxSize <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		c.maxSize = maxSize
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
