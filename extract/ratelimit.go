package extract

import (
	"context"
	"strings"
	"sync"

	"github.com/AndreyKolygin/jobgrab"
	"golang.org/x/time/rate"
)

var _ jobgrab.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces page loads per domain using token buckets.
// Each domain gets its own limiter with a burst of 1, so different job
// boards load concurrently while one board is never hammered.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter allowing rps page loads per
// second for each domain. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
