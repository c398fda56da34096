package middleware

import (
	"fmt"
	"net"
	"net/netip"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
	buckets map[string]rateEntry
	// Proxies decides whose X-Forwarded-For is believed when keying by IP.
	Proxies TrustedProxies
}

type rateEntry struct {
	count   int
	expires time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		window:  window,
		limit:   limit,
		now:     time.Now,
		buckets: make(map[string]rateEntry),
	}
}

// Take consumes one slot for key. When the window is exhausted it reports
// how long until the window resets.
func (rl *RateLimiter) Take(key string) (bool, time.Duration) {
	if rl == nil {
		return true, 0
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry := rl.buckets[key]
	if now.After(entry.expires) {
		entry.count = 0
		entry.expires = now.Add(rl.window)
	}
	if entry.count >= rl.limit {
		rl.buckets[key] = entry
		return false, entry.expires.Sub(now)
	}
	entry.count++
	rl.buckets[key] = entry

	if len(rl.buckets) > rl.limit*50 {
		for k, v := range rl.buckets {
			if now.After(v.expires) {
				delete(rl.buckets, k)
			}
		}
	}
	return true, 0
}

// Limit rejects requests over the limit with 429, keyed by client IP.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := rl.TakeRequest(r); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds()+0.999)))
			http.Error(w, "too many attempts", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TakeRequest is Take keyed by the request's client IP.
func (rl *RateLimiter) TakeRequest(r *http.Request) (bool, time.Duration) {
	if rl == nil {
		return true, 0
	}
	return rl.Take(rl.Proxies.ClientIP(r))
}

// TrustedProxies are the networks whose forwarding headers are believed.
type TrustedProxies []netip.Prefix

func ParseTrustedProxies(cidrs []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(cidrs))
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if !strings.Contains(c, "/") {
			addr, err := netip.ParseAddr(c)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", c, err)
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", c, err)
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

func (tp TrustedProxies) trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range tp {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP is the peer address, or the forwarded client when the peer is a
// trusted proxy. X-Forwarded-For is walked right to left, skipping trusted
// hops.
func (tp TrustedProxies) ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !tp.trusts(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			addr, err := netip.ParseAddr(hop)
			if err != nil {
				return host
			}
			if !tp.trusts(addr) {
				return addr.Unmap().String()
			}
		}
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		if addr, err := netip.ParseAddr(xrip); err == nil {
			return addr.Unmap().String()
		}
	}
	return host
}
