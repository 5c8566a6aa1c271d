package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultPerMinute = 100
	// hostIdleTTL bounds how long an idle host keeps its limiter.
	hostIdleTTL   = 5 * time.Minute
	sweepMinHosts = 1024
)

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// hostLimiter hands out one token bucket per host, refilled at perMinute per minute
// with a burst of perMinute.
type hostLimiter struct {
	mu        sync.Mutex
	perMinute int
	hosts     map[string]*hostEntry
	now       func() time.Time
}

func newHostLimiter(perMinute int) *hostLimiter {
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	return &hostLimiter{
		perMinute: perMinute,
		hosts:     make(map[string]*hostEntry),
		now:       time.Now,
	}
}

// Allow reports whether host may issue another request now.
func (h *hostLimiter) Allow(host string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	e, ok := h.hosts[host]
	if !ok {
		if len(h.hosts) >= sweepMinHosts {
			h.sweep(now)
		}
		e = &hostEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(h.perMinute)), h.perMinute),
		}
		h.hosts[host] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (h *hostLimiter) sweep(now time.Time) {
	for host, e := range h.hosts {
		if now.Sub(e.lastSeen) > hostIdleTTL {
			delete(h.hosts, host)
		}
	}
}
