package discover

import (
	"context"
	"sync"

	"github.com/bylawsiq/bylawsiq"
	"golang.org/x/time/rate"
)

// Ensure Limiter implements bylawsiq.DomainLimiter at compile time.
var _ bylawsiq.DomainLimiter = (*Limiter)(nil)

// Limiter rate-limits requests per domain so a run never hammers a single
// municipal site. Limiter is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLimiter creates a per-domain limiter allowing rps requests per second
// with the given burst.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until the domain's limiter allows a request or the context is
// canceled.
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	return l.limiterFor(domain).Wait(ctx)
}

func (l *Limiter) limiterFor(domain string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[domain]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[domain] = lim
	}
	return lim
}
