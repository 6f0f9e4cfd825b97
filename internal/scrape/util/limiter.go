package util

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter spaces out requests per hostname so a short check interval or
// a manual rerun never hammers the listing site. A nil *HostLimiter only
// honours ctx.
type HostLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limit: rate.Limit(reqPerSec),
		burst: burst,
		hosts: map[string]*rate.Limiter{},
	}
}

func (hl *HostLimiter) forHost(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	lim, ok := hl.hosts[host]
	if !ok {
		lim = rate.NewLimiter(hl.limit, hl.burst)
		hl.hosts[host] = lim
	}
	return lim
}

// WaitURL blocks until a request to raw's host is allowed or ctx ends.
// Unparseable URLs share one bucket.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil {
		return ctx.Err()
	}
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host = strings.ToLower(u.Hostname())
	}
	return hl.forHost(host).Wait(ctx)
}
