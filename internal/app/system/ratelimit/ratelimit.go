// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts attempts per key in fixed windows.
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max attempts per window
	duration time.Duration // window length
	now      func() time.Time

	lastSweep time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit attempts per key every duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > 2*l.duration {
		l.sweepLocked(now)
	}

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many attempts key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Sweep drops expired windows and returns how many were removed. Allow
// also sweeps on its own every two window lengths.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(l.now())
}

func (l *Limiter) sweepLocked(now time.Time) int {
	n := 0
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
			n++
		}
	}
	l.lastSweep = now
	return n
}

// ClientIP returns the host part of r.RemoteAddr. Behind a proxy, run
// chi's RealIP middleware first so RemoteAddr holds the client address.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Messages returned when a credential attempt is refused.
const (
	MsgTooManyFromIP     = "Too many attempts. Please wait a minute before trying again."
	MsgTooManyForAccount = "Too many login attempts for this account. Please wait a few minutes."
)

// CredentialGuard throttles signup and login attempts by client IP and by
// target email, covering both spraying from one address and attacks on one
// account from many.
type CredentialGuard struct {
	ip    *Limiter
	email *Limiter
}

// GuardConfig sizes a CredentialGuard. Zero fields take the defaults of
// 10 attempts per IP per minute and 5 per email per 5 minutes.
type GuardConfig struct {
	IPLimit     int
	IPWindow    time.Duration
	EmailLimit  int
	EmailWindow time.Duration
}

// NewCredentialGuard builds a guard from cfg.
func NewCredentialGuard(cfg GuardConfig) *CredentialGuard {
	if cfg.IPLimit <= 0 {
		cfg.IPLimit = 10
	}
	if cfg.IPWindow <= 0 {
		cfg.IPWindow = time.Minute
	}
	if cfg.EmailLimit <= 0 {
		cfg.EmailLimit = 5
	}
	if cfg.EmailWindow <= 0 {
		cfg.EmailWindow = 5 * time.Minute
	}
	return &CredentialGuard{
		ip:    New(cfg.IPLimit, cfg.IPWindow),
		email: New(cfg.EmailLimit, cfg.EmailWindow),
	}
}

// Check records an attempt from r, optionally against email. It returns
// "" when allowed, or the message to show when refused.
func (g *CredentialGuard) Check(r *http.Request, email string) string {
	if !g.ip.Allow(ClientIP(r)) {
		return MsgTooManyFromIP
	}
	if key := emailKey(email); key != "" && !g.email.Allow(key) {
		return MsgTooManyForAccount
	}
	return ""
}

// Succeeded clears the per-email count after a successful login.
func (g *CredentialGuard) Succeeded(email string) {
	if key := emailKey(email); key != "" {
		g.email.Reset(key)
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
