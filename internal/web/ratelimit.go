package web

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's bucket survives without requests.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter keeps one token bucket per client IP.
type keyedLimiter struct {
	mu      sync.RWMutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// newKeyedLimiter allows perMinute sustained requests per key with burst.
func newKeyedLimiter(perMinute, burst int) *keyedLimiter {
	if burst <= 0 {
		burst = 1
	}
	kl := &keyedLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		done:    make(chan struct{}),
	}
	go kl.cleanup()
	return kl
}

func (kl *keyedLimiter) allow(key string) bool {
	now := time.Now()

	kl.mu.RLock()
	c, ok := kl.clients[key]
	kl.mu.RUnlock()

	if !ok {
		kl.mu.Lock()
		if c, ok = kl.clients[key]; !ok {
			c = &clientLimiter{limiter: rate.NewLimiter(kl.limit, kl.burst)}
			kl.clients[key] = c
		}
		kl.mu.Unlock()
	}

	kl.mu.Lock()
	c.lastSeen = now
	kl.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// retryAfter is the whole number of seconds until one token is back.
func (kl *keyedLimiter) retryAfter() int {
	if kl.limit <= 0 {
		return 60
	}
	secs := int(1/float64(kl.limit)) + 1
	return secs
}

func (kl *keyedLimiter) stop() {
	kl.stopOnce.Do(func() { close(kl.done) })
}

func (kl *keyedLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case now := <-ticker.C:
			kl.mu.Lock()
			for key, c := range kl.clients {
				if now.Sub(c.lastSeen) > idleLimiterTTL {
					delete(kl.clients, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}

// middleware rejects requests over the limit with 429.
func (kl *keyedLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !kl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(kl.retryAfter()))
			respondErrorJSON(w, errRateLimited, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the host part of RemoteAddr, which TrustedRealIP has already
// rewritten for proxied requests.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
