package utility

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterEnforcesBudget(t *testing.T) {
	l := newRateLimiter(time.Minute, 3, nil)

	require.NoError(t, l.allow("1.2.3.4"))
	require.NoError(t, l.allow("1.2.3.4"))
	require.NoError(t, l.allow("1.2.3.4"))
	assert.Error(t, l.allow("1.2.3.4"))

	// A different IP has its own budget.
	assert.NoError(t, l.allow("5.6.7.8"))
}

func TestRateLimiterWindowExpiryEvictsIP(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	l := newRateLimiter(time.Minute, 2, func() time.Time { return clock })

	require.NoError(t, l.allow("1.2.3.4"))
	require.NoError(t, l.allow("1.2.3.4"))
	require.Error(t, l.allow("1.2.3.4"))
	assert.Equal(t, 1, l.trackedIPs())

	clock = clock.Add(2 * time.Minute)
	assert.NoError(t, l.allow("1.2.3.4"))
	assert.Equal(t, 1, l.trackedIPs())
}

func TestRateLimiterConcurrentRequestsCountExactly(t *testing.T) {
	l := newRateLimiter(time.Minute, 30, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.allow("1.2.3.4") == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, allowed, "exactly the budget must be admitted under contention")
}

func TestRateLimiterSweepDropsIdleIPs(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	l := newRateLimiter(time.Minute, 100, func() time.Time { return clock })

	require.NoError(t, l.allow("1.2.3.4"))
	require.NoError(t, l.allow("5.6.7.8"))
	require.Equal(t, 2, l.trackedIPs())

	clock = clock.Add(2 * time.Minute)
	l.mu.Lock()
	l.sweep(clock)
	l.mu.Unlock()
	assert.Equal(t, 0, l.trackedIPs())
}

func TestGetRealIPPrefersForwardedFor(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "203.0.113.9", GetRealIP(c))
}

func TestGetUserIDFromContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	_, err := GetUserIDFromContext(c)
	assert.Error(t, err)

	c.Set("user_id", "user-1")
	id, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}
