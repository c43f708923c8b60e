package mdblog

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SearchLimiter rate-limits requests per IP address with a token bucket per
// client.
type SearchLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewSearchLimiter allows perSecond requests per IP with bursts of burst.
// Clients idle for longer than idle are forgotten.
func NewSearchLimiter(perSecond float64, burst int, idle time.Duration) *SearchLimiter {
	l := &SearchLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    idle,
		stop:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *SearchLimiter) cleanup() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.prune(time.Now().Add(-l.idle))
		}
	}
}

func (l *SearchLimiter) prune(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Allow reports whether ip may make a request now, and spends a token if so.
func (l *SearchLimiter) Allow(ip string) bool {
	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.seen = time.Now()
	l.mu.Unlock()
	return c.limiter.Allow()
}

// Len returns the number of tracked clients.
func (l *SearchLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the cleanup goroutine.
func (l *SearchLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
