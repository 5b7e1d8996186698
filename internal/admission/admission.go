// Package admission throttles how often extraction may be requested per
// caller. It is an upstream gate and shares no state with the extraction
// guard: a caller can be rate-limited while nothing is in progress, and
// vice versa.
package admission

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// Controller keeps one token bucket per caller. Buckets for idle callers
// are evicted after IdleTTL so the cache does not grow unbounded.
type Controller struct {
	buckets *ttlcache.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

type Config struct {
	// RequestsPerMinute is the sustained request budget per caller.
	RequestsPerMinute float64

	// Burst is how many requests a caller may issue back to back.
	Burst int

	// IdleTTL evicts a caller's bucket after this much inactivity.
	IdleTTL time.Duration
}

func New(cfg Config) *Controller {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	buckets := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](cfg.IdleTTL),
	)
	go buckets.Start()

	return &Controller{
		buckets: buckets,
		limit:   rate.Limit(cfg.RequestsPerMinute / 60.0),
		burst:   cfg.Burst,
	}
}

// Allow reports whether the caller may issue another extraction request now.
func (c *Controller) Allow(caller string) bool {
	item, _ := c.buckets.GetOrSet(caller, rate.NewLimiter(c.limit, c.burst))
	return item.Value().Allow()
}

// Stop shuts down the eviction loop.
func (c *Controller) Stop() {
	c.buckets.Stop()
}
