package utility

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// GetRealIP is a helper function to get the user's real IP address.
// It checks proxy headers first.
func GetRealIP(c echo.Context) string {
	// X-Forwarded-For can be a list: "client, proxy1, proxy2"
	xForwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	xRealIP := c.Request().Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	return c.RealIP()
}

// rateLimiter is a mutex-guarded sliding-window counter per IP. The
// touched key is pruned on every call and the whole map is swept
// periodically so idle IPs do not accumulate forever.
type rateLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxAttempts int
	now         func() time.Time
	hits        map[string][]time.Time
	calls       int
}

func newRateLimiter(window time.Duration, maxAttempts int, now func() time.Time) *rateLimiter {
	if now == nil {
		now = time.Now
	}
	return &rateLimiter{
		window:      window,
		maxAttempts: maxAttempts,
		now:         now,
		hits:        make(map[string][]time.Time),
	}
}

func (l *rateLimiter) allow(ip string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(ip, now)

	if len(recent) >= l.maxAttempts {
		return fmt.Errorf("too many requests, please try again later")
	}

	l.hits[ip] = append(recent, now)

	l.calls++
	if l.calls%1024 == 0 {
		l.sweep(now)
	}
	return nil
}

// prune drops expired attempts for one IP, deleting the key when nothing
// recent remains. Caller holds the lock.
func (l *rateLimiter) prune(ip string, now time.Time) []time.Time {
	attempts := l.hits[ip]
	recent := attempts[:0]
	for _, t := range attempts {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(l.hits, ip)
		return nil
	}
	l.hits[ip] = recent
	return recent
}

func (l *rateLimiter) sweep(now time.Time) {
	for ip := range l.hits {
		l.prune(ip, now)
	}
}

func (l *rateLimiter) trackedIPs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// ipLimiter caps how often one IP may hit the expensive resolution
// endpoints, since each call fans out to every external source.
var ipLimiter = newRateLimiter(time.Minute, 30, nil)

// CheckIPRateLimit returns an error when the IP has exceeded its
// per-minute budget for the resolution endpoints.
func CheckIPRateLimit(ip string) error {
	return ipLimiter.allow(ip)
}

// GetUserIDFromContext safely retrieves user ID from Echo context
func GetUserIDFromContext(c echo.Context) (string, error) {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
