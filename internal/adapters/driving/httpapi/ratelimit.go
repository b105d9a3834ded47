package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// clientLimiter is one client's token bucket.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds a token bucket per client address. Idle buckets
// are swept in the background until stop is called.
type clientLimiters struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	trusted  []netip.Prefix
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newClientLimiters(rps float64, burst int, trusted []netip.Prefix) *clientLimiters {
	if burst < 1 {
		burst = 1
	}
	l := &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		trusted: trusted,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go l.sweep()
	return l
}

func (l *clientLimiters) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-limiterIdleTTL)
			for key, c := range l.clients {
				if c.lastSeen.Before(cutoff) {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopCh:
			return
		}
	}
}

// allow reports whether client may make a request now.
func (l *clientLimiters) allow(client string) bool {
	l.mu.Lock()
	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = l.now()
	l.mu.Unlock()

	return c.limiter.Allow()
}

func (l *clientLimiters) stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// middleware rejects requests over the client's budget with 429.
func (l *clientLimiters) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientKey(r, l.trusted)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseTrustedProxies turns IPs and CIDRs into prefixes.
func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: trusted proxy %q: %w", domain.ErrInvalidInput, entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted proxy %q: %w", domain.ErrInvalidInput, entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientKey identifies the caller by its remote IP. X-Forwarded-For is
// only read when that peer is a trusted proxy; hops are walked from the
// right and the first untrusted address wins.
func clientKey(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	peer = peer.Unmap()
	if !isTrusted(peer, trusted) {
		return peer.String()
	}

	key := peer
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		key = addr.Unmap()
		if !isTrusted(key, trusted) {
			break
		}
	}
	return key.String()
}
