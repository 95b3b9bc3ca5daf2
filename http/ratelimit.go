package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long a client's bucket is kept after its last
// request.
const DefaultIdleTimeout = 10 * time.Minute

// ClientLimiter provides per-client rate limiting using token buckets.
// Each client address gets its own limiter so one busy operator does not
// block others. Buckets idle for IdleTimeout are dropped, which bounds the
// map by the number of clients seen within roughly two idle periods.
type ClientLimiter struct {
	// Zero means DefaultIdleTimeout.
	IdleTimeout time.Duration

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
	rps       float64
	burst     int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		clients:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
		rps:       rps,
		burst:     burst,
	}
}

// Allow reports whether client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	now := time.Now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops idle buckets at most once per idle period. Callers hold mu.
func (l *ClientLimiter) sweep(now time.Time) {
	idle := l.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if now.Sub(l.lastSweep) < idle {
		return
	}
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) >= idle {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// clientKey identifies the caller by remote host, ignoring the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
